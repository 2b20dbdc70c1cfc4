// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Init sets the log level and formatter. Diagnostics go to stderr so that
// command output on stdout stays clean.
func Init(logLevel string) error {
	return InitTo(os.Stderr, logLevel)
}

// InitTo is Init with an explicit destination.
func InitTo(w io.Writer, logLevel string) error {
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   false,
	})
	log.SetOutput(w)
	log.SetLevel(level)
	return nil
}
