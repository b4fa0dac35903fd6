package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/simbev/pkg/models"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
)

var listRun string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	Long:  `Displays stored scenario runs, or the per-region totals of one run with --run.`,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listRun, "run", "", "Show per-region totals for this run id")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if listRun == "" {
		runs, err := db.ListRuns()
		if err != nil {
			return fmt.Errorf("listing runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs found")
			return nil
		}

		fmt.Printf("%-36s  %-10s  %-10s  %4s  %-14s\n", "Run", "From", "To", "Step", "Created")
		fmt.Println("--------------------------------------------------------------------------------")
		for _, r := range runs {
			fmt.Printf("%-36s  %-10s  %-10s  %4d  %-14s\n", r.ID, r.StartDate.Format("2006-01-02"),
				r.EndDate.Format("2006-01-02"), r.StepSize, humanize.Time(r.CreatedAt))
		}
		return nil
	}

	run, err := db.GetRun(listRun)
	if err != nil {
		return fmt.Errorf("loading run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run %s not found", listRun)
	}

	regions, err := db.Regions(run.ID)
	if err != nil {
		return fmt.Errorf("listing regions: %w", err)
	}
	if len(regions) == 0 {
		fmt.Printf("No data found for run %s\n", run.ID)
		return nil
	}

	for _, region := range regions {
		buckets, err := db.ListBuckets(run.ID, region)
		if err != nil {
			return fmt.Errorf("listing buckets for %s: %w", region, err)
		}
		trips, err := db.CountTrips(run.ID, region)
		if err != nil {
			return err
		}

		fmt.Printf("\n%s (%s buckets, %s trips)\n", region, humanize.Comma(int64(len(buckets))), humanize.Comma(int64(trips)))
		fmt.Println("----------------------------------------")
		fmt.Printf("%-10s  %12s  %12s\n", "Usecase", "Total", "Mean")
		fmt.Println("----------------------------------------")
		for i, name := range models.Usecases {
			col := make([]float64, len(buckets))
			for j, b := range buckets {
				col[j] = b.Values[i]
			}
			mean := stat.Mean(col, nil)
			fmt.Printf("%-10s  %12.3f  %12.5f\n", name, mean*float64(len(col)), mean)
		}
	}

	return nil
}
