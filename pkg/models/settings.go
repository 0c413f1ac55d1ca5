package models

// Settings represents the application configuration
type Settings struct {
	Registry RegistrySettings `yaml:"registry"`
	UI       UISettings       `yaml:"ui"`
	Export   ExportSettings   `yaml:"export"`
}

// RegistrySettings controls how the backend is reached
type RegistrySettings struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	PageSize       int    `yaml:"page_size"`
}

// UISettings controls composer preferences
type UISettings struct {
	ShowParams   bool   `yaml:"show_params"`
	CatalogView  string `yaml:"catalog_view"` // "grouped" or "flat"
	StarredFirst bool   `yaml:"starred_first"`
}

// ExportSettings controls local template export behavior
type ExportSettings struct {
	Path string `yaml:"path"`
}

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		Registry: RegistrySettings{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 15,
			PageSize:       1000,
		},
		UI: UISettings{
			ShowParams:   true,
			CatalogView:  "grouped",
			StarredFirst: false,
		},
		Export: ExportSettings{
			Path: "./",
		},
	}
}
