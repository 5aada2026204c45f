// Package config handles .kpimatrix.yaml configuration files.
package config

// Config represents the contents of a .kpimatrix.yaml file.
type Config struct {
	OutputFormat string `yaml:"output_format,omitempty"`
	SettingsFile string `yaml:"settings_file,omitempty"`
	StateDir     string `yaml:"state_dir,omitempty"`
	Sheet        string `yaml:"sheet,omitempty"`
	ViewMode     string `yaml:"view_mode,omitempty"`
	Concurrency  int    `yaml:"concurrency,omitempty"`

	// Columns binds roles, formats and types to table columns by display name.
	Columns map[string]ColumnConfig `yaml:"columns,omitempty"`

	// ColumnMapping seeds the column mapping of column-based tables:
	// metric -> role -> column.
	ColumnMapping map[string]map[string]string `yaml:"column_mapping,omitempty"`
}

// ColumnConfig holds per-column bindings in the config file.
type ColumnConfig struct {
	Roles  []string `yaml:"roles,omitempty"`
	Format string   `yaml:"format,omitempty"`
	Type   string   `yaml:"type,omitempty"`
}

// RunConfig is the effective configuration of one command invocation after
// CLI flags and file config are merged.
type RunConfig struct {
	OutputFormat string
	SettingsFile string
	StateDir     string
	Sheet        string
	ViewMode     string
	Concurrency  int
	NoState      bool
}

// FileName is the expected config file name in the working directory.
const FileName = ".kpimatrix.yaml"

// View modes accepted in configuration.
const (
	ViewModeView = "view"
	ViewModeEdit = "edit"
)
