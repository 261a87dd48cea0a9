package config

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggerOnce sync.Once
	logger     *logrus.Logger
)

// GetLogger returns the process-wide application logger.
// JSON output in production, colored text everywhere else.
func GetLogger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stdout)
		if os.Getenv("APP_ENV") == "production" {
			logger.SetFormatter(&logrus.JSONFormatter{})
			logger.SetLevel(logrus.InfoLevel)
		} else {
			logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			logger.SetLevel(logrus.DebugLevel)
		}
		if os.Getenv("DEBUG") == "true" {
			logger.SetLevel(logrus.DebugLevel)
		}
	})
	return logger
}
