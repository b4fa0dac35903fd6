package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/simbev/internal/mobility"
	"github.com/jgoulah/simbev/internal/timeseries"
	"github.com/jgoulah/simbev/pkg/models"
	"github.com/spf13/cobra"
)

var (
	tsStart   string
	tsEnd     string
	tsStep    int
	tsDataDir string
	tsOut     string
)

var timeseriesCmd = &cobra.Command{
	Use:   "timeseries REGION",
	Short: "Build the activity time series of one region",
	Long: `Stitches the seasonal weekly tables of REGION (<data_dir>/<region>/<season>.csv) into a
continuous series over --start..--end and sums it into --step minute buckets.`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeseries,
}

func init() {
	timeseriesCmd.Flags().StringVar(&tsStart, "start", "", "First day (YYYY-MM-DD)")
	timeseriesCmd.Flags().StringVar(&tsEnd, "end", "", "Last day, inclusive (YYYY-MM-DD)")
	timeseriesCmd.Flags().IntVar(&tsStep, "step", 15, "Step size in minutes")
	timeseriesCmd.Flags().StringVar(&tsDataDir, "data-dir", "", "Table directory (default: data_dir from config)")
	timeseriesCmd.Flags().StringVar(&tsOut, "out", "", "Write the series as CSV to this file ('-' for stdout)")
	rootCmd.AddCommand(timeseriesCmd)
}

func runTimeseries(cmd *cobra.Command, args []string) error {
	region := args[0]

	start, end, err := parseRange(tsStart, tsEnd)
	if err != nil {
		return err
	}

	dataDir := tsDataDir
	if dataDir == "" {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		dataDir = cfg.GetDataDir()
	}

	series, err := timeseries.Build(start, end, region, tsStep, mobility.NewCSVSource(dataDir))
	if err != nil {
		return fmt.Errorf("building time series: %w", err)
	}

	if tsOut != "" {
		f, err := createOutput(tsOut)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		if err := timeseries.WriteCSV(f, series); err != nil {
			f.Close()
			return fmt.Errorf("writing series: %w", err)
		}
		if tsOut != "-" {
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing output: %w", err)
			}
			fmt.Printf("✓ Wrote %s buckets to %s\n", humanize.Comma(int64(series.Len())), tsOut)
		}
		return nil
	}

	printSeriesSummary(series)
	return nil
}

// printSeriesSummary prints per-usecase totals and peaks
func printSeriesSummary(series *timeseries.Series) {
	fmt.Printf("\n%s: %s buckets of %d min\n", series.Region, humanize.Comma(int64(series.Len())), series.Step)
	fmt.Println("----------------------------------------------------")
	fmt.Printf("%-10s  %12s  %12s  %s\n", "Usecase", "Total", "Peak", "Peak at")
	fmt.Println("----------------------------------------------------")
	totals := series.Totals()
	for i, name := range models.Usecases {
		at, peak := series.Peak(i)
		fmt.Printf("%-10s  %12.3f  %12.4f  %s\n", name, totals[i], peak, at.Format("2006-01-02 15:04"))
	}
}
