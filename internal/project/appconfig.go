// Package project persists application-level state under the user's home
// directory: the app config, custom split presets, backups, and the run
// manifest history.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/piwi3910/WallCut/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.wallcut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".wallcut")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	var config model.AppConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, err
	}
	// Ensure RecentDocuments is never nil
	if config.RecentDocuments == nil {
		config.RecentDocuments = []string{}
	}
	return config, nil
}

// LoadAppConfigWithEnv loads the config file and overlays WALLCUT_*
// environment variables on top of it. A .env file in the working directory
// is read first, if present, so local overrides work without touching the
// shell environment. Command-line flags still win over both.
func LoadAppConfigWithEnv(path string) (model.AppConfig, error) {
	_ = godotenv.Load()
	config, err := LoadAppConfig(path)
	if err != nil {
		return model.AppConfig{}, err
	}
	if err := envconfig.Process("wallcut", &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return config, nil
}
