package utils

import "github.com/sirupsen/logrus"

var Logger = logrus.New()

func SetVerbose() {
	Logger.SetLevel(logrus.DebugLevel)
}

// SetLevel parses a logrus level name such as "warn" or "debug".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)
	return nil
}
