package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zeittracker/zeit/internal/gate"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause tracking until resumed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := gate.NewPauseFlag(cfg.Paths.PauseFlag).Set(true); err != nil {
			return err
		}
		fmt.Println("Tracking paused.")
		return nil
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := gate.NewPauseFlag(cfg.Paths.PauseFlag).Set(false); err != nil {
			return err
		}
		fmt.Println("Tracking resumed.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current gating state",
	RunE: func(cmd *cobra.Command, args []string) error {
		workHours, err := cfg.WorkHours.Parse()
		if err != nil {
			return err
		}
		paused := gate.NewPauseFlag(cfg.Paths.PauseFlag).Paused()

		decision := gate.Evaluate(time.Now(), workHours, paused)
		fmt.Printf("%s: %s\n", decision.State, decision.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd, resumeCmd, statusCmd)
}
