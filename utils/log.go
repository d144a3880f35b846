package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is shared by every package; main sets its level and format.
var Log = logrus.New()

func init() {
	Log.SetOutput(os.Stderr)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// SetLevel parses a logrus level name ("debug", "info", ...).
func SetLevel(name string) error {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	Log.SetLevel(lvl)
	return nil
}

func Debugf(format string, args ...any) {
	Log.Debugf(format, args...)
}
