package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"pdf-compressor/internal/config"
	"pdf-compressor/internal/domain"
	"pdf-compressor/internal/history"
	"pdf-compressor/internal/logging"
)

// commandContext carries shared flag state and lazy access to app resources.
type commandContext struct {
	verboseFlag *bool
}

// logger builds a slog logger honoring the --verbose flag.
func (c *commandContext) logger() (*slog.Logger, error) {
	level := "info"
	if c.verboseFlag != nil && *c.verboseFlag {
		level = "debug"
	}
	return logging.New(logging.Options{Level: level, Format: "text"})
}

// loadSettings reads persisted settings from the standard location.
func (c *commandContext) loadSettings() (domain.Settings, *config.JSONStore, error) {
	path, err := config.SettingsPath()
	if err != nil {
		return domain.Settings{}, nil, fmt.Errorf("resolve settings path: %w", err)
	}

	store := config.NewJSONStore(path)
	settings, err := store.Load()
	if err != nil {
		return domain.Settings{}, nil, fmt.Errorf("load settings: %w", err)
	}
	return settings, store, nil
}

// openHistory connects to the shared compression history database.
func (c *commandContext) openHistory() (*history.Store, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data directory: %w", err)
	}
	return history.Open(filepath.Join(dataDir, "history.db"))
}
