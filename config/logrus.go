package config

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/verdipos/verdi_backend/appctx"
)

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	logg = logrus.New()
	logg.SetOutput(os.Stdout)
	logg.SetFormatter(newLogFormatter(GetEnv("LOG_FORMAT", "json")))

	level, err := logrus.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
}

// newLogFormatter picks LOG_FORMAT: "text" for a terminal, anything else is JSON.
func newLogFormatter(format string) logrus.Formatter {
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
	}
	return &logrus.JSONFormatter{}
}

// RequestLogger tags entries with the request's correlation id, when there is one.
func RequestLogger(ctx context.Context, logger *logrus.Logger) *logrus.Entry {
	entry := logrus.NewEntry(logger)
	if cid, ok := appctx.GetString(ctx, appctx.ContextKeyCorrelationId); ok && cid != "" {
		entry = entry.WithField("correlation_id", cid)
	}
	return entry
}

func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
