// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Setup sets the level and output of the standard logrus logger. An empty
// level means "info".
func Setup(level string, out io.Writer) error {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if out != nil {
		logrus.SetOutput(out)
	}
	return nil
}

// For returns an entry tagged with the component that logs through it.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}
