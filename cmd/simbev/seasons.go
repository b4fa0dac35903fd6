package main

import (
	"fmt"

	"github.com/jgoulah/simbev/internal/season"
	"github.com/spf13/cobra"
)

var seasonsCmd = &cobra.Command{
	Use:   "seasons START END",
	Short: "Show the season segments of a date range",
	Long:  `Splits the inclusive date range START..END (YYYY-MM-DD) into season segments, as used when stitching tables.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSeasons,
}

func init() {
	rootCmd.AddCommand(seasonsCmd)
}

func runSeasons(cmd *cobra.Command, args []string) error {
	start, end, err := parseRange(args[0], args[1])
	if err != nil {
		return err
	}

	segments, err := season.Segments(start, end)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s  %-10s  %-10s  %5s  %5s  %4s\n", "Season", "From", "To", "Days", "Weeks", "Left")
	fmt.Println("--------------------------------------------------")
	for _, s := range segments {
		fmt.Printf("%-8s  %-10s  %-10s  %5d  %5d  %4d\n", s.Season,
			s.Start.Format("2006-01-02"), s.End.AddDate(0, 0, -1).Format("2006-01-02"),
			s.Days(), s.WholeWeeks, s.LeftoverDays)
	}
	fmt.Println("--------------------------------------------------")
	fmt.Printf("%d segments, %d days, first weekday %s\n", len(segments),
		season.DaysBetween(start, end)+1, start.Weekday())
	return nil
}
