package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zeittracker/zeit/internal/capture"
	"github.com/zeittracker/zeit/internal/gate"
	"github.com/zeittracker/zeit/internal/notify"
	"github.com/zeittracker/zeit/internal/pipeline"
	"github.com/zeittracker/zeit/internal/provider"
	"github.com/zeittracker/zeit/internal/store"
)

var trackDelay int

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Run one tracking iteration",
	Long: `Runs a single capture-classify-store iteration and exits. Outside
work hours, while paused, or when the machine is idle the iteration is
skipped; an idle iteration records an idle marker.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if trackDelay > 0 {
			logger.Info("delaying capture", zap.Int("seconds", trackDelay))
			time.Sleep(time.Duration(trackDelay) * time.Second)
		}

		workHours, err := cfg.WorkHours.Parse()
		if err != nil {
			return err
		}

		opts := providerOptions()
		vision, err := provider.Resolve(provider.Selection{
			Kind:  provider.Kind(cfg.Provider.Kind),
			Model: cfg.Provider.VisionModel,
		}, opts)
		if err != nil {
			return fmt.Errorf("vision provider: %w", err)
		}
		text, err := provider.Resolve(provider.Selection{
			Kind:  provider.Kind(cfg.Provider.Kind),
			Model: cfg.Provider.TextModel,
		}, opts)
		if err != nil {
			return fmt.Errorf("text provider: %w", err)
		}

		st, err := store.Open(cfg.Paths.Storage)
		if err != nil {
			return err
		}
		defer st.Close()

		tracker := pipeline.New(
			capture.New(logger),
			pipeline.NewClassifier(vision, text, cfg.ActivityCatalog(), logger),
			st,
			workHours,
			gate.NewPauseFlag(cfg.Paths.PauseFlag),
			cfg.IdleThreshold(),
			logger,
		)

		outcome, err := tracker.RunOnce(context.Background(), time.Now())
		if err != nil {
			notifyFailure(err)
			return err
		}
		if outcome.Skipped {
			logger.Info("iteration skipped", zap.String("reason", outcome.Reason))
		}
		return nil
	},
}

func providerOptions() provider.Options {
	return provider.Options{
		ServiceURL:    cfg.Provider.ServiceURL,
		Thinking:      cfg.Provider.Thinking,
		RemoteBaseURL: cfg.Provider.RemoteBaseURL,
		RunnerBinary:  cfg.Provider.RunnerBinary,
		Weights:       cfg.Provider.Weights,
		Logger:        logger,
	}
}

func notifyFailure(err error) {
	n := notify.NewDesktopNotifier()
	if sendErr := n.Send("Zeit tracking failed", err.Error(), notify.UrgencyCritical); sendErr != nil {
		logger.Debug("notification failed", zap.Error(sendErr))
	}
}

func init() {
	trackCmd.Flags().IntVar(&trackDelay, "delay", 0, "seconds to wait before capturing")
	rootCmd.AddCommand(trackCmd)
}
