// Package logging configures the logrus logger shared by relnotes commands.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options selects the logger level and format.
type Options struct {
	// Level is a logrus level name ("debug", "info", "warn", "error").
	Level string
	// JSON switches from text to JSON lines.
	JSON bool
	// Out receives log output (default: os.Stderr).
	Out io.Writer
}

// New creates a logger. Unknown levels fall back to warn.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	return logger
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
