package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Settings represents the application configuration
type Settings struct {
	AssetDir  string `toml:"asset_dir"`
	ShowBleed bool   `toml:"show_bleed"`

	Export ExportSettings `toml:"export"`
	Viewer ViewerSettings `toml:"viewer"`
}

// ExportSettings holds defaults for card export commands
type ExportSettings struct {
	Format       string `toml:"format"`
	Quality      int    `toml:"quality"`
	IncludeBacks bool   `toml:"include_backs"`
}

// ViewerSettings holds defaults for viewer mode
type ViewerSettings struct {
	Bind string `toml:"bind"`
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return xdgCache
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache")
}

// GetAssetDir returns the path to the asset directory
func GetAssetDir() string {
	return filepath.Join(GetXDGDataHome(), "shoggoth", "assets")
}

// GetCacheDir returns the path to the render cache directory
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), "shoggoth")
}

// GetSettingsFilePath returns the path to the settings file
func GetSettingsFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "shoggoth", "settings.toml")
}

// Default returns the built-in settings values
func Default() *Settings {
	return &Settings{
		AssetDir:  GetAssetDir(),
		ShowBleed: true,
		Export: ExportSettings{
			Format:       "png",
			Quality:      100,
			IncludeBacks: false,
		},
		Viewer: ViewerSettings{
			Bind: "127.0.0.1:7423",
		},
	}
}

// Load loads the settings file, creating a default one if it doesn't exist
func Load() (*Settings, error) {
	settingsPath := GetSettingsFilePath()

	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return createDefaultSettings()
	}

	settings := Default()
	if _, err := toml.DecodeFile(settingsPath, settings); err != nil {
		return nil, fmt.Errorf("error decoding settings file: %v", err)
	}

	if settings.AssetDir == "" {
		settings.AssetDir = GetAssetDir()
	}

	return settings, nil
}

// createDefaultSettings creates a default settings file
func createDefaultSettings() (*Settings, error) {
	settingsPath := GetSettingsFilePath()
	settingsDir := filepath.Dir(settingsPath)

	if err := os.MkdirAll(settingsDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating settings directory: %v", err)
	}

	settings := Default()

	file, err := os.Create(settingsPath)
	if err != nil {
		return nil, fmt.Errorf("error creating settings file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(settings); err != nil {
		return nil, fmt.Errorf("error encoding settings: %v", err)
	}

	return settings, nil
}

// Save writes the settings back to the settings file
func (s *Settings) Save() error {
	settingsPath := GetSettingsFilePath()
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0755); err != nil {
		return fmt.Errorf("error creating settings directory: %v", err)
	}

	file, err := os.Create(settingsPath)
	if err != nil {
		return fmt.Errorf("error opening settings file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("error encoding settings: %v", err)
	}

	return nil
}
