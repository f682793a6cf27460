package commands

import (
	"boxes/config"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var logFile *os.File

// setupLogging sends the global logger to stderr and, when configured, to the
// game log, which is truncated at the start of every run.
func setupLogging(c config.Config) error {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	closeLog()
	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	if c.GameLog == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return nil
	}

	f, err := os.OpenFile(c.GameLog, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open game log: %w", err)
	}
	logFile = f
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, f)).With().Timestamp().Logger()
	return nil
}

func closeLog() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
