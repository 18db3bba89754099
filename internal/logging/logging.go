// Package logging builds the process logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
)

// New returns a JSON logger for "prod"/"production" and a console logger
// for anything else. The level is Info, or Debug when verbose is set.
func New(mode string, verbose bool) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	}
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
