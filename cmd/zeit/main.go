// zeit is a screen-activity tracker: it periodically captures the
// screen, describes it with a vision model, classifies the activity
// against a user-defined catalog and stores timestamped entries, which
// it can later condense into a narrative day summary.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zeittracker/zeit/internal/config"
	"github.com/zeittracker/zeit/internal/logging"
)

var (
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "zeit",
	Short: "Screen-activity tracker with LLM classification",
	Long: `zeit captures your screens on a schedule, asks a vision model what
you are doing, classifies the answer against your activity catalog and
stores one timestamped entry per sample. At the end of the day the
entries condense into a narrative summary.

Iterations are meant to be triggered by an OS scheduler (cron, systemd
timer); zeit itself runs one iteration per invocation and exits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Best effort: a missing .env file is the normal case.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level := cfg.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		logger, err = logging.New(logging.Config{Level: level, Encoding: cfg.Logging.Encoding})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override configured log level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
