package config

import (
	"encoding/json"
	"os"

	"github.com/mamishal/echoos/internal/flagx"
	"github.com/mamishal/echoos/internal/timex"
)

// JsonConfig is the DTO used for reading JSON configuration files. Interval
// fields use timex.Duration, which accepts both strings such as "30m" and
// integer nanoseconds. After unmarshalling, values are copied into the
// runtime Config.
type JsonConfig struct {
	ConfigDir       string         `json:"config_dir"`
	DatabaseDSN     string         `json:"database_dsn"`
	KeyPath         string         `json:"key_path"`
	SessionTimeout  timex.Duration `json:"session_timeout"`
	CleanupInterval timex.Duration `json:"cleanup_interval"`
	MatchThreshold  float64        `json:"match_threshold"`
	CaptureDuration timex.Duration `json:"capture_duration"`
	SampleRate      int            `json:"sample_rate"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into config. When no file is named, nothing is loaded.
// An unreadable or invalid file panics: a half-applied config is worse
// than a failed start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.ConfigDir = c.ConfigDir
	config.DatabaseDSN = c.DatabaseDSN
	config.KeyPath = c.KeyPath
	config.SessionTimeout = c.SessionTimeout.Duration
	config.CleanupInterval = c.CleanupInterval.Duration
	config.MatchThreshold = c.MatchThreshold
	config.CaptureDuration = c.CaptureDuration.Duration
	config.SampleRate = c.SampleRate
}
