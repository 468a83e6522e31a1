package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var base = logrus.New()

// Configure sets the level and output format of the shared logger.
//
// Production uses JSON lines so log shippers can index the fields; every other
// environment gets the human readable text formatter.
func Configure(level string, production bool) {
	base.SetOutput(os.Stdout)
	if production {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	base.SetLevel(lvl)
}

// For returns an entry tagged with the component and layer it logs for,
// e.g. For("order", "usecase").
func For(component, layer string) *logrus.Entry {
	return base.WithFields(logrus.Fields{
		"component": component,
		"layer":     layer,
	})
}

// Base exposes the underlying logger (used by gin and cron adapters).
func Base() *logrus.Logger {
	return base
}
