package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/marketdesk/marketdesk-terminal/pkg/models"
)

const (
	ConfigDirName    = ".marketdesk"
	SettingsFileName = "settings.yaml"
	ExportsDirName   = "exports"
)

// ConfigDir can be overridden in tests.
var ConfigDir = defaultConfigDir()

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ConfigDirName
	}
	return filepath.Join(home, ConfigDirName)
}

// SettingsPath returns the absolute path of the settings file
func SettingsPath() string {
	return filepath.Join(ConfigDir, SettingsFileName)
}

// InitConfigStructure creates the config folder and writes default settings
// unless a settings file already exists.
func InitConfigStructure() (bool, error) {
	dirs := []string{
		ConfigDir,
		filepath.Join(ConfigDir, ExportsDirName),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(SettingsPath()); err == nil {
		return false, nil
	}

	if err := WriteSettings(models.DefaultSettings()); err != nil {
		return false, err
	}
	return true, nil
}

// ReadSettings loads settings from disk. A missing file yields defaults.
func ReadSettings() (*models.Settings, error) {
	content, err := os.ReadFile(SettingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	// Start from defaults so partially written files keep sane values
	settings := models.DefaultSettings()
	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings YAML: %w", err)
	}

	return settings, nil
}

// WriteSettings persists settings to disk
func WriteSettings(settings *models.Settings) error {
	if err := os.MkdirAll(ConfigDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}

	if err := os.WriteFile(SettingsPath(), content, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}

	return nil
}

// WriteExport stores an exported record set under the exports folder and
// returns the written path.
func WriteExport(name string, content []byte) (string, error) {
	dir := filepath.Join(ConfigDir, ExportsDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create exports directory: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write export %s: %w", name, err)
	}
	return path, nil
}
