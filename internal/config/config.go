// Package config handles configuration loading and defaults.
//
// Configuration lives in a single YAML file. Load merges the file over
// DefaultConfig, so a partial file only overrides what it names. The core
// only reads configuration; the catalog commands are the one writer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zeittracker/zeit/internal/activity"
	"github.com/zeittracker/zeit/internal/gate"
)

// Config holds all configuration for the tracker.
type Config struct {
	WorkHours            WorkHoursConfig         `yaml:"work_hours"`
	IdleThresholdSeconds int                     `yaml:"idle_threshold_seconds"`
	Provider             ProviderConfig          `yaml:"provider"`
	Paths                PathsConfig             `yaml:"paths"`
	Catalog              []activity.ActivityType `yaml:"catalog"`
	Logging              LoggingConfig           `yaml:"logging"`

	// loadedFrom remembers where Load found the file so Save writes back
	// to the same place.
	loadedFrom string
}

// WorkHoursConfig is the schedule as written in YAML ("HH:MM" strings plus
// weekday names).
type WorkHoursConfig struct {
	Start    string   `yaml:"start"` // e.g. "09:00"
	End      string   `yaml:"end"`   // e.g. "17:30"
	WorkDays []string `yaml:"work_days"`
}

// ProviderConfig selects the inference back-end and models.
type ProviderConfig struct {
	Kind        string `yaml:"kind"` // on-device, local-service, remote-api
	VisionModel string `yaml:"vision_model"`
	TextModel   string `yaml:"text_model"`

	// Local-service settings (Ollama wire format).
	ServiceURL string `yaml:"service_url"`
	Thinking   bool   `yaml:"thinking"` // request thinking traces from the service

	// Remote-API settings. The credential itself comes from the
	// environment, never from this file.
	RemoteBaseURL string `yaml:"remote_base_url"`

	// On-device settings: runner binary plus model-name -> weights path.
	RunnerBinary string            `yaml:"runner_binary"`
	Weights      map[string]string `yaml:"weights"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	Storage   string `yaml:"storage"`
	PauseFlag string `yaml:"pause_flag"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// DefaultIdleThreshold is the idle cutoff when the file doesn't set one.
const DefaultIdleThreshold = 300 * time.Second

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}

	return &Config{
		WorkHours: WorkHoursConfig{
			Start:    "09:00",
			End:      "17:30",
			WorkDays: []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		},
		IdleThresholdSeconds: int(DefaultIdleThreshold.Seconds()),
		Provider: ProviderConfig{
			Kind:        "local-service",
			VisionModel: "qwen3-vl:4b",
			TextModel:   "qwen3:8b",
			ServiceURL:  "http://localhost:11434",
		},
		Paths: PathsConfig{
			Storage:   filepath.Join(home, ".local", "share", "zeit"),
			PauseFlag: filepath.Join(home, ".zeit_pause"),
		},
		Catalog: activity.DefaultCatalog(),
		Logging: LoggingConfig{Level: "info", Encoding: "console"},
	}
}

// Load loads configuration from path, or from the default locations when
// path is empty, falling back to defaults when no file exists.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var candidates []string
	if path != "" {
		candidates = []string{path}
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = []string{
			filepath.Join(home, ".config", "zeit", "config.yaml"),
			filepath.Join(home, ".local", "share", "zeit", "config.yaml"),
		}
	}

	for _, p := range candidates {
		err := loadFromFile(cfg, p)
		if err == nil {
			cfg.loadedFrom = p
			break
		}
		if path != "" {
			// An explicit path that fails to load is an error, not a fallback.
			return nil, fmt.Errorf("failed to load config %s: %w", p, err)
		}
	}

	if err := activity.Catalog(cfg.Catalog).Validate(); err != nil {
		return nil, fmt.Errorf("invalid activity catalog: %w", err)
	}
	if _, err := cfg.WorkHours.Parse(); err != nil {
		return nil, fmt.Errorf("invalid work hours: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.Paths.Storage = expandTilde(cfg.Paths.Storage)
	cfg.Paths.PauseFlag = expandTilde(cfg.Paths.PauseFlag)
	return nil
}

// Save writes the configuration back to the file it was loaded from, or to
// the default location for a config that started from defaults.
func (c *Config) Save() error {
	path := c.loadedFrom
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(home, ".config", "zeit")
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// IdleThreshold returns the idle cutoff as a duration.
func (c *Config) IdleThreshold() time.Duration {
	if c.IdleThresholdSeconds <= 0 {
		return DefaultIdleThreshold
	}
	return time.Duration(c.IdleThresholdSeconds) * time.Second
}

// ActivityCatalog returns the catalog as the activity package type.
func (c *Config) ActivityCatalog() activity.Catalog {
	return activity.Catalog(c.Catalog)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// Parse converts the YAML representation into the gate's schedule type.
func (w WorkHoursConfig) Parse() (gate.WorkHours, error) {
	startH, startM, err := parseClock(w.Start)
	if err != nil {
		return gate.WorkHours{}, fmt.Errorf("start: %w", err)
	}
	endH, endM, err := parseClock(w.End)
	if err != nil {
		return gate.WorkHours{}, fmt.Errorf("end: %w", err)
	}

	days := make(map[time.Weekday]bool, len(w.WorkDays))
	for _, name := range w.WorkDays {
		day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return gate.WorkHours{}, fmt.Errorf("unknown weekday %q", name)
		}
		days[day] = true
	}
	if len(days) == 0 {
		return gate.WorkHours{}, fmt.Errorf("no work days configured")
	}

	return gate.WorkHours{
		StartHour: startH, StartMinute: startM,
		EndHour: endH, EndMinute: endM,
		WorkDays: days,
	}, nil
}

// parseClock parses "HH:MM".
func parseClock(s string) (hour, minute int, err error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return h, m, nil
}

// expandTilde expands a leading ~ to the user's home directory.
func expandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
