package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/store"
)

var (
	objectivesDate      string
	objectivesMain      string
	objectivesSecondary []string
)

var objectivesCmd = &cobra.Command{
	Use:   "objectives",
	Short: "Manage the day's stated objectives",
	Long: `Objectives are the yardstick for the day summary: when set, the
summary additionally assesses how the recorded activities aligned with
them. One main objective, at most two secondary ones.`,
}

var objectivesSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the objectives for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		if objectivesMain == "" {
			return fmt.Errorf("--main is required")
		}
		if len(objectivesSecondary) > activity.MaxSecondaryObjectives {
			return fmt.Errorf("at most %d secondary objectives allowed", activity.MaxSecondaryObjectives)
		}

		st, err := store.Open(cfg.Paths.Storage)
		if err != nil {
			return err
		}
		defer st.Close()

		date := objectivesDate
		if date == "" {
			date = time.Now().Format(activity.DateFormat)
		}

		if err := st.SetObjectives(activity.DayObjectives{
			Date:                date,
			MainObjective:       objectivesMain,
			SecondaryObjectives: objectivesSecondary,
		}); err != nil {
			return err
		}
		fmt.Printf("Objectives set for %s.\n", date)
		return nil
	},
}

var objectivesShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the objectives for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Paths.Storage)
		if err != nil {
			return err
		}
		defer st.Close()

		date := objectivesDate
		if date == "" {
			date = time.Now().Format(activity.DateFormat)
		}

		obj, err := st.GetObjectives(date)
		if err != nil {
			return err
		}
		if obj == nil {
			fmt.Printf("No objectives set for %s.\n", date)
			return nil
		}

		fmt.Printf("Objectives for %s\n  main: %s\n", obj.Date, obj.MainObjective)
		for _, s := range obj.SecondaryObjectives {
			fmt.Printf("  secondary: %s\n", s)
		}
		return nil
	},
}

var objectivesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the objectives for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(cfg.Paths.Storage)
		if err != nil {
			return err
		}
		defer st.Close()

		date := objectivesDate
		if date == "" {
			date = time.Now().Format(activity.DateFormat)
		}

		if err := st.DeleteObjectives(date); err != nil {
			return err
		}
		fmt.Printf("Objectives cleared for %s.\n", date)
		return nil
	},
}

func init() {
	objectivesCmd.PersistentFlags().StringVar(&objectivesDate, "date", "", "day (YYYY-MM-DD, default today)")
	objectivesSetCmd.Flags().StringVar(&objectivesMain, "main", "", "main objective")
	objectivesSetCmd.Flags().StringSliceVar(&objectivesSecondary, "secondary", nil, "secondary objective (repeatable, max 2)")

	objectivesCmd.AddCommand(objectivesSetCmd, objectivesShowCmd, objectivesClearCmd)
	rootCmd.AddCommand(objectivesCmd)
}
