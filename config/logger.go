package config

import "go.uber.org/zap"

// NewLogger returns a JSON production logger or a console development one.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
