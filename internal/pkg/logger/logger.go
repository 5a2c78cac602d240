package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. Level comes from LOG_LEVEL, defaulting
// to info; anything unparseable falls back to info as well.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}
