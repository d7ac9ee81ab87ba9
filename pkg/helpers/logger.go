package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger. Development gets human-readable
// debug output; every other environment gets JSON at info level.
func NewLogger(appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

// LogError logs msg at error level with err attached under "error". A nil
// logger is a no-op.
func LogError(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if entry := withFields(logger, err, fields); entry != nil {
		entry.Error(msg)
	}
}

func LogWarn(logger logrus.FieldLogger, msg string, err error, fields logrus.Fields) {
	if entry := withFields(logger, err, fields); entry != nil {
		entry.Warn(msg)
	}
}

func LogInfo(logger logrus.FieldLogger, msg string, fields logrus.Fields) {
	if entry := withFields(logger, nil, fields); entry != nil {
		entry.Info(msg)
	}
}

func withFields(logger logrus.FieldLogger, err error, fields logrus.Fields) *logrus.Entry {
	if logger == nil {
		return nil
	}
	if l, ok := logger.(*logrus.Logger); ok && l == nil {
		return nil
	}
	out := make(logrus.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	if err != nil {
		out[logrus.ErrorKey] = err
	}
	return logger.WithFields(out)
}
