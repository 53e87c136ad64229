// Package logger builds the process-wide logrus logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger writing to stdout. level is a logrus level name;
// when empty, debug builds log at debug and everything else at info. An
// unknown level falls back to info and is reported once.
func New(level string, debug bool) *logrus.Logger {
	return newWithOutput(level, debug, os.Stdout)
}

func newWithOutput(level string, debug bool, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	log.SetOutput(out)
	log.SetLevel(logrus.InfoLevel)

	if level == "" {
		if debug {
			log.SetLevel(logrus.DebugLevel)
		}
		return log
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("unknown LOG_LEVEL, using info")
		return log
	}
	log.SetLevel(lvl)
	return log
}
