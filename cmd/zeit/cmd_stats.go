package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/store"
	"github.com/zeittracker/zeit/internal/summary"
)

var statsDate string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the numeric breakdown for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := statsDate
		if date == "" {
			date = time.Now().Format(activity.DateFormat)
		}

		st, err := store.Open(cfg.Paths.Storage)
		if err != nil {
			return err
		}
		defer st.Close()

		record, err := st.GetDayRecord(date)
		if err != nil {
			return err
		}
		if record == nil {
			fmt.Printf("No activity recorded for %s.\n", date)
			return nil
		}

		stats := summary.ComputeDayStats(date, record.Activities, cfg.ActivityCatalog())
		fmt.Printf("Stats for %s (%d samples)\n\n", stats.Date, stats.TotalSamples)
		for _, s := range stats.Activities {
			fmt.Printf("  %-28s %4d  %5.1f%%  [%s]\n", s.Activity, s.Count, s.Percentage, s.Category)
		}
		fmt.Printf("\n  work: %d (%.1f%%)  personal: %d (%.1f%%)  idle: %d (%.1f%%)\n",
			stats.WorkCount, stats.WorkPercentage,
			stats.PersonalCount, stats.PersonalPercentage,
			stats.IdleCount, stats.IdlePercentage)
		return nil
	},
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List days with recorded activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Paths.Storage)
		if err != nil {
			return err
		}
		defer st.Close()

		dates, err := st.ListDates()
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			fmt.Println("No activity recorded yet.")
			return nil
		}
		for _, d := range dates {
			fmt.Println(d)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsDate, "date", "", "day to report (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(datesCmd)
}
