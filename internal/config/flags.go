package config

import (
	"flag"
	"os"
	"time"

	"github.com/mamishal/echoos/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   SQLite database path
//	-k string   key file path
//	-t int      session timeout, minutes
//	-i int      cleanup interval, minutes
//	-m float    biometric match threshold
//	-u int      voice capture duration, seconds
//	-r int      audio sample rate, Hz
//
// os.Args is first filtered to the flags handled here via flagx.FilterArgs,
// avoiding collisions with flags owned by other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-k", "-t", "-i", "-m", "-u", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database path")
	fs.StringVar(&config.KeyPath, "k", config.KeyPath, "key file path")

	sessionTimeout := fs.Int("t", int(config.SessionTimeout.Minutes()), "session timeout (in minutes)")
	cleanupInterval := fs.Int("i", int(config.CleanupInterval.Minutes()), "session cleanup interval (in minutes)")
	captureDuration := fs.Int("u", int(config.CaptureDuration.Seconds()), "voice capture duration (in seconds)")

	fs.Float64Var(&config.MatchThreshold, "m", config.MatchThreshold, "biometric match threshold")
	fs.IntVar(&config.SampleRate, "r", config.SampleRate, "audio sample rate (Hz)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTimeout = time.Duration(*sessionTimeout) * time.Minute
	config.CleanupInterval = time.Duration(*cleanupInterval) * time.Minute
	config.CaptureDuration = time.Duration(*captureDuration) * time.Second
}
