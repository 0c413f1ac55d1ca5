package cli

import (
	"os"
	"time"

	"github.com/opflow/opflow-cli/pkg/models"
	"github.com/opflow/opflow-cli/pkg/registry"
	"github.com/opflow/opflow-cli/pkg/store"
)

// CommandContext resolves settings and the registry client shared by all
// subcommands. Resolution order for the registry URL: --registry flag,
// OPFLOW_REGISTRY environment variable, settings file, default.
type CommandContext struct {
	Settings *models.Settings

	registryFlag string
	client       *registry.Client
}

// NewCommandContext creates a new command context
func NewCommandContext(registryFlag string) *CommandContext {
	return &CommandContext{registryFlag: registryFlag}
}

// LoadSettingsWithDefault loads settings or returns defaults on error
func (c *CommandContext) LoadSettingsWithDefault() *models.Settings {
	if c.Settings != nil {
		return c.Settings
	}

	settings, err := store.LoadSettings()
	if err != nil {
		settings = models.DefaultSettings()
	}

	c.Settings = settings
	return settings
}

// RegistryURL returns the resolved registry base URL
func (c *CommandContext) RegistryURL() string {
	if c.registryFlag != "" {
		return c.registryFlag
	}
	if env := os.Getenv("OPFLOW_REGISTRY"); env != "" {
		return env
	}
	return c.LoadSettingsWithDefault().Registry.BaseURL
}

// Client returns the registry client, building it on first use
func (c *CommandContext) Client() (*registry.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	settings := c.LoadSettingsWithDefault()
	timeout := time.Duration(settings.Registry.TimeoutSeconds) * time.Second
	client, err := registry.New(c.RegistryURL(), timeout)
	if err != nil {
		return nil, err
	}
	c.client = client
	return client, nil
}
