package config

import (
	"os"
	"path/filepath"

	"voxtext/internal/domain"
)

// DefaultSettingsPath returns the standard settings file location.
func DefaultSettingsPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".voxtext", "settings.json")
}

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return domain.Settings{
		ModelDir:  filepath.Join(homeDir, ".voxtext", "models"),
		OutputDir: filepath.Join(homeDir, "Documents", "Transcripts"),
		Model:     string(domain.ModelTierBase),
		Formats:   []string{string(domain.FormatText)},
	}
}
