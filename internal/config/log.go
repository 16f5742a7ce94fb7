package config

import (
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger returns a logger writing to stderr with the given prefix.
// The level is taken from LOG_LEVEL and defaults to info.
func NewLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportTimestamp: true,
	})
	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}
