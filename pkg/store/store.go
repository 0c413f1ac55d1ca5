package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/opflow/opflow-cli/pkg/models"
)

const (
	appDir       = "opflow"
	settingsFile = "settings.yaml"
)

// SettingsPath returns the settings file location under the user config
// directory.
func SettingsPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(base, appDir, settingsFile), nil
}

// LoadSettings reads the settings file, falling back to defaults when it
// does not exist yet.
func LoadSettings() (*models.Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	settings := models.DefaultSettings()
	if err := yaml.Unmarshal(content, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings writes the settings file, creating the config directory
// when needed.
func SaveSettings(settings *models.Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write settings %s: %w", path, err)
	}
	return nil
}

// ExportTemplate writes a template to a local YAML file.
func ExportTemplate(path string, tpl models.Template) error {
	content, err := yaml.Marshal(tpl)
	if err != nil {
		return fmt.Errorf("failed to serialize template %s: %w", tpl.Name, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for export: %w", err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write template %s: %w", path, err)
	}
	return nil
}

// ImportTemplate reads a template from a local YAML file.
func ImportTemplate(path string) (models.Template, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.Template{}, fmt.Errorf("failed to read template %s: %w", path, err)
	}
	var tpl models.Template
	if err := yaml.Unmarshal(content, &tpl); err != nil {
		return models.Template{}, fmt.Errorf("failed to parse template YAML %s: %w", path, err)
	}
	return tpl, nil
}

// ImportTask reads a task definition from a local YAML file.
func ImportTask(path string) (models.TaskPayload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return models.TaskPayload{}, fmt.Errorf("failed to read task %s: %w", path, err)
	}
	var task models.TaskPayload
	if err := yaml.Unmarshal(content, &task); err != nil {
		return models.TaskPayload{}, fmt.Errorf("failed to parse task YAML %s: %w", path, err)
	}
	return task, nil
}
