package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the service logger. Production runs at info without
// source locations; everywhere else debug with sources is worth the
// noise. LOG_FORMAT=json forces JSON output regardless of environment.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}
	json := false
	if cfg != nil {
		if cfg.IsProduction() {
			opts.Level = slog.LevelInfo
			opts.AddSource = false
			json = true
		}
		if cfg.LogFormat == "json" {
			json = true
		}
	}
	if json {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
