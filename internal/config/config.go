// Package config handles runtime configuration for the assistant,
// including defaults, an optional JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the authentication subsystem.
//
// Fields:
//   - ConfigDir: directory holding the key file and database.
//   - DatabaseDSN: path of the SQLite database with identities and sessions.
//   - KeyPath: path of the symmetric key file.
//   - SessionTimeout: session lifetime.
//   - CleanupInterval: period of the expired-session sweep.
//   - MatchThreshold: biometric rejection floor on the [-1, 1] scale.
//   - CaptureDuration / SampleRate: voice capture parameters.
type Config struct {
	ConfigDir       string
	DatabaseDSN     string
	KeyPath         string
	SessionTimeout  time.Duration
	CleanupInterval time.Duration
	MatchThreshold  float64
	CaptureDuration time.Duration
	SampleRate      int
}

// LoadDefaults populates Config with the development defaults.
func (c *Config) LoadDefaults() {
	c.ConfigDir = "config"
	c.DatabaseDSN = "config/echoos.db"
	c.KeyPath = "config/.key"
	c.SessionTimeout = 30 * time.Minute
	c.CleanupInterval = 5 * time.Minute
	c.MatchThreshold = 0.75
	c.CaptureDuration = 5 * time.Second
	c.SampleRate = 16000
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
