// Package logger builds the zap logger shared by every component.
package logger

import "go.uber.org/zap"

// New returns a JSON production logger when env is "production" and a
// human-readable development logger otherwise.
func New(env string) *zap.Logger {
	if env == "production" {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}
