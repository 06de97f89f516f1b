package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

func New(version string) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger.WithFields(logrus.Fields{
		"version": version,
		"program": "refcheck",
	})
}

func SetLevel(level string, logE *logrus.Entry) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logE.WithField("log_level", level).WithError(err).Error("the log level is invalid")
		return
	}
	logE.Logger.Level = lvl
}
