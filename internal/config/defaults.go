package config

import (
	"os"
	"path/filepath"

	"pdf-compressor/internal/domain"
)

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		Preset:    string(domain.DefaultPreset),
		OutputDir: filepath.Join(homeDir, "Documents", "Compressed PDFs"),
	}
}

// DataDir returns the directory holding settings, history, and the app lock.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".pdf-compressor"), nil
}

// SettingsPath returns the standard settings file location.
func SettingsPath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}
