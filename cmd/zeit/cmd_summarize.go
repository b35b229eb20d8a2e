package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/notify"
	"github.com/zeittracker/zeit/internal/provider"
	"github.com/zeittracker/zeit/internal/store"
	"github.com/zeittracker/zeit/internal/summary"
)

var summarizeDate string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate the narrative summary for a day",
	Long: `Condenses a day's entries into activity groups and a percentage
breakdown, then asks the text model for a narrative summary. When
objectives were set for the day the summary also assesses how the
activities aligned with them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := summarizeDate
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

		objectives, err := st.GetObjectives(date)
		if err != nil {
			return err
		}

		text, err := provider.Resolve(provider.Selection{
			Kind:  provider.Kind(cfg.Provider.Kind),
			Model: cfg.Provider.TextModel,
		}, providerOptions())
		if err != nil {
			return fmt.Errorf("text provider: %w", err)
		}

		summarizer := summary.NewSummarizer(text, logger)
		day, err := summarizer.Summarize(context.Background(), record.Activities, cfg.ActivityCatalog(), objectives)
		if err != nil {
			return err
		}
		if day == nil {
			fmt.Printf("Nothing to summarize for %s (no non-idle activity).\n", date)
			return nil
		}

		fmt.Printf("Summary for %s (%s-%s)\n\n%s\n",
			date, day.Start.Format("15:04"), day.End.Format("15:04"), day.Summary)
		if day.ObjectivesAlignment != "" {
			fmt.Printf("\nObjectives alignment:\n%s\n", day.ObjectivesAlignment)
		}

		n := notify.NewDesktopNotifier()
		_ = n.Send("Zeit day summary ready", fmt.Sprintf("Summary for %s generated.", date), notify.UrgencyNormal)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeDate, "date", "", "day to summarize (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(summarizeCmd)
}
