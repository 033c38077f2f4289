package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Config holds runtime configuration for the generator and the server.
type Config struct {
	Port             string
	PollInterval     Duration
	ConfigFile       string
	OutputDir        string
	DefaultTimezone  string
	GameDuration     Duration
	MaxParallelTeams int
	AdminToken       string
	Fetch            FetchConfig
	Metrics          MetricsConfig
	Publish          PublishConfig
	Teams            []TeamConfig
}

// Load reads configuration from environment variables and the feeds file.
// Environment values win over the file, which wins over defaults. A missing
// default feeds file is not an error; a missing explicitly configured one is.
func Load() (Config, error) {
	cfg := Config{
		Port:             envString(envPort, defaultPort),
		PollInterval:     envDuration(envPollInterval, defaultPollInterval),
		ConfigFile:       envString(envConfigFile, defaultConfigFile),
		MaxParallelTeams: envInt(envMaxParallelTeams, defaultMaxParallel),
		AdminToken:       envString(envAdminToken, ""),
		Fetch:            loadFetch(),
		Metrics:          loadMetrics(),
		Publish:          loadPublish(),
	}

	file, err := LoadFeedsFile(cfg.ConfigFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || os.Getenv(envConfigFile) != "" {
			return cfg, fmt.Errorf("config: load %s: %w", cfg.ConfigFile, err)
		}
		file = FeedsFile{}
	}
	cfg.applyFile(file)
	return cfg, nil
}

func (c *Config) applyFile(file FeedsFile) {
	c.OutputDir = firstNonEmpty(os.Getenv(envOutputDir), file.OutputDir, defaultOutputDir)
	c.DefaultTimezone = firstNonEmpty(os.Getenv(envDefaultTimezone), file.DefaultTimezone, defaultTimezone)

	c.GameDuration = defaultGameDuration
	if d, ok := parsePositiveDuration(file.GameDuration); ok {
		c.GameDuration = d
	}
	c.GameDuration = envDuration(envGameDuration, c.GameDuration)
	c.Teams = file.Teams
}

// ValidTeams returns the usable team entries and an error per rejected entry.
func (c Config) ValidTeams() ([]TeamConfig, []error) {
	return ValidateTeams(c.Teams, c.DefaultTimezone)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func parsePositiveDuration(raw string) (time.Duration, bool) {
	if strings.TrimSpace(raw) == "" {
		return 0, false
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
