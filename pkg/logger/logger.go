// Package logger configures the process-wide structured logger for the
// lost-and-found service.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// InitLogger sets up JSON logging to stdout. LOG_LEVEL overrides the default
// info level; an unparseable value falls back to info.
func InitLogger() {
	Log = logrus.New()
	Log.Out = os.Stdout
	Log.SetFormatter(&logrus.JSONFormatter{})

	level := logrus.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if parsed, err := logrus.ParseLevel(v); err == nil {
			level = parsed
		}
	}
	Log.SetLevel(level)
}
