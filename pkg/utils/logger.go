package utils

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the application logger. In production it appends to
// logs/app.log under logDir, falling back to stdout.
func NewLogger(env, level, logDir string) *logrus.Logger {
	logger := logrus.New()

	logger.SetReportCaller(true)

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
		PrettyPrint:     false,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := filepath.Base(f.File)
			return "", filename + ":" + strconv.Itoa(f.Line)
		},
	})

	switch level {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Out = os.Stdout
	if env != "production" {
		return logger
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger.WithError(err).Warn("Failed to create logs directory, using stdout instead")
		return logger
	}

	logFilePath := filepath.Join(logDir, "app.log")

	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		logger.WithError(err).Warn("Failed to log to file, using stdout instead")
		return logger
	}
	logger.Out = file

	return logger
}

// NewNopLogger discards everything.
func NewNopLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}
