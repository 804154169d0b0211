package logger

import (
	"io"
	"openmrs-billing-e2e/internal/app/config"
	"openmrs-billing-e2e/internal/pkg/constvars"

	"github.com/sirupsen/logrus"
)

// NewLogrusLogger builds the human readable logger the CLI prints run
// summaries with. Production runs emit JSON so CI can collect them.
func NewLogrusLogger(internalConfig *config.InternalConfig, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	switch internalConfig.App.Env {
	case constvars.AppEnvProduction:
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return logger
}
