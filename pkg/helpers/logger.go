package helpers

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus logger writing to stdout: text at debug level in
// development, JSON at info level elsewhere. A non-empty level overrides the
// environment default.
func NewLogger(appName, env, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if level != "" {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(lvl)
		} else {
			logger.WithField("level", level).Warn("unknown log level, keeping default")
		}
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env, "level": logger.GetLevel().String()}).Info("logger initialized")
	return logger
}

func entry(logger *logrus.Logger, err error, fields logrus.Fields) *logrus.Entry {
	e := logger.WithFields(fields)
	if err != nil {
		e = e.WithError(err)
	}
	return e
}

// LogError logs msg at error level with err under the "error" field.
func LogError(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	entry(logger, err, fields).Error(msg)
}

// LogWarn is used for best-effort side channels (search indexing, email
// publishing, cache upkeep) whose failure never fails the caller.
func LogWarn(logger *logrus.Logger, msg string, err error, fields logrus.Fields) {
	if logger == nil {
		return
	}
	entry(logger, err, fields).Warn(msg)
}

func LogInfo(logger *logrus.Logger, msg string, fields logrus.Fields) {
	if logger == nil {
		return
	}
	logger.WithFields(fields).Info(msg)
}
