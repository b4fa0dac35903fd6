package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jgoulah/simbev/internal/log"
	"github.com/jgoulah/simbev/internal/mobility"
	"github.com/jgoulah/simbev/internal/sampler"
	"github.com/jgoulah/simbev/internal/simulation"
	"github.com/jgoulah/simbev/pkg/models"
	"github.com/spf13/cobra"
)

var (
	runFillMissing bool
	runNoProfile   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured scenario over all regions",
	Long: `Builds the activity time series of every configured region (and, when profile_pool is set,
a synthetic trip profile) using num_threads workers, and stores the results in the database.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runFillMissing, "fill-missing", false, "Use a zero series for regions without tables instead of failing them")
	runCmd.Flags().BoolVar(&runNoProfile, "no-profile", false, "Skip synthetic profiles even if profile_pool is configured")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Run started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	sc := cfg.Scenario
	if !sc.StepDividesDay() {
		log.Warnw("step size does not divide a day, segment buckets will not align", "step_size", sc.StepSize)
	}

	start, _ := sc.Start()
	end, _ := sc.End()

	var pool *sampler.Pool
	if cfg.ProfilePool != "" && !runNoProfile {
		pool, err = sampler.LoadPool(cfg.ProfilePool)
		if err != nil {
			return fmt.Errorf("loading profile pool: %w", err)
		}
		fmt.Printf("Loaded %d recorded weeks from %s\n", pool.Len(), cfg.ProfilePool)
	}

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	run := &models.Run{
		ID:          uuid.New().String(),
		StartDate:   start,
		EndDate:     end,
		StepSize:    sc.StepSize,
		Seed:        sc.Seed,
		SocMin:      sc.SocMin,
		EtaCP:       sc.EtaCP,
		HomePrivate: sc.HomePrivate,
		WorkPrivate: sc.WorkPrivate,
	}
	if err := db.CreateRun(run); err != nil {
		return fmt.Errorf("creating run: %w", err)
	}

	runner := &simulation.Runner{
		Source:      mobility.NewCachedSource(mobility.NewCSVSource(cfg.GetDataDir())),
		Pool:        pool,
		Store:       db,
		NumThreads:  cfg.GetNumThreads(),
		FillMissing: runFillMissing,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("Run %s: %d regions, %s..%s, %d min steps, %d workers\n", run.ID, len(cfg.Regions),
		sc.StartDate, sc.EndDate, sc.StepSize, runner.NumThreads)

	params := simulation.Params{RunID: run.ID, Start: start, End: end, Step: sc.StepSize, Seed: sc.Seed}
	results, runErr := runner.Run(ctx, params, cfg.Regions)

	for i, res := range results {
		fmt.Printf("[%d/%d] %-20s ", i+1, len(results), res.Region.ID)
		switch {
		case res.Err != nil:
			fmt.Printf("FAILED: %v\n", res.Err)
		case res.Empty:
			fmt.Printf("✓ %s empty buckets (no tables)\n", humanize.Comma(int64(res.Series.Len())))
		default:
			fmt.Printf("✓ %s buckets, %s trips (%s)\n", humanize.Comma(int64(res.Series.Len())),
				humanize.Comma(int64(res.Trips)), res.Duration.Round(time.Millisecond))
		}
	}

	failed := simulation.Failed(results)
	fmt.Printf("\nRun %s finished: %d/%d regions succeeded\n", run.ID, len(results)-len(failed), len(results))
	if runErr != nil {
		return runErr
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d regions failed", len(failed))
	}
	return nil
}
