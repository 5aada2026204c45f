package config

import (
	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/mapping"
	"github.com/davetashner/kpimatrix/internal/table"
)

// Merge combines file-based config with CLI-provided values.
// CLI values take precedence; zero-value CLI fields fall through to file config.
func Merge(fileCfg *Config, cliCfg RunConfig) RunConfig {
	result := cliCfg

	if result.OutputFormat == "" {
		result.OutputFormat = fileCfg.OutputFormat
	}
	if result.SettingsFile == "" {
		result.SettingsFile = fileCfg.SettingsFile
	}
	if result.StateDir == "" {
		result.StateDir = fileCfg.StateDir
	}
	if result.Sheet == "" {
		result.Sheet = fileCfg.Sheet
	}
	if result.ViewMode == "" {
		result.ViewMode = fileCfg.ViewMode
	}
	if result.Concurrency == 0 && fileCfg.Concurrency > 0 {
		result.Concurrency = fileCfg.Concurrency
	}
	return result
}

// MergeConfigs merges global and repo configs. Repo values take precedence.
// Only non-zero repo values override global values; column blocks and
// mapped metrics are replaced whole.
func MergeConfigs(global, repo *Config) *Config {
	merged := *global

	if repo.OutputFormat != "" {
		merged.OutputFormat = repo.OutputFormat
	}
	if repo.SettingsFile != "" {
		merged.SettingsFile = repo.SettingsFile
	}
	if repo.StateDir != "" {
		merged.StateDir = repo.StateDir
	}
	if repo.Sheet != "" {
		merged.Sheet = repo.Sheet
	}
	if repo.ViewMode != "" {
		merged.ViewMode = repo.ViewMode
	}
	if repo.Concurrency != 0 {
		merged.Concurrency = repo.Concurrency
	}

	if len(repo.Columns) > 0 {
		cols := make(map[string]ColumnConfig, len(global.Columns)+len(repo.Columns))
		for name, c := range global.Columns {
			cols[name] = c
		}
		for name, c := range repo.Columns {
			cols[name] = c
		}
		merged.Columns = cols
	}

	if len(repo.ColumnMapping) > 0 {
		m := make(map[string]map[string]string, len(global.ColumnMapping)+len(repo.ColumnMapping))
		for metric, roles := range global.ColumnMapping {
			m[metric] = roles
		}
		for metric, roles := range repo.ColumnMapping {
			m[metric] = roles
		}
		merged.ColumnMapping = m
	}

	return &merged
}

// Bindings converts the column blocks into table bindings.
// Role names are resolved case-insensitively; unknown names are skipped
// because Validate reports them.
func (c *Config) Bindings() table.Bindings {
	b := table.Bindings{
		Roles:   make(map[string][]string),
		Formats: make(map[string]string),
		Types:   make(map[string]table.ValueType),
	}
	for name, cc := range c.Columns {
		for _, r := range cc.Roles {
			if role, ok := columns.ParseRole(r); ok {
				b.Roles[name] = append(b.Roles[name], string(role))
			}
		}
		if cc.Format != "" {
			b.Formats[name] = cc.Format
		}
		if vt := table.ParseValueType(cc.Type); vt != table.TypeUnknown {
			b.Types[name] = vt
		}
	}
	return b
}

// Mapping converts the configured column mapping.
func (c *Config) Mapping() mapping.ColumnMapping {
	m := make(mapping.ColumnMapping)
	for metric, roles := range c.ColumnMapping {
		for r, column := range roles {
			if role, ok := columns.ParseRole(r); ok {
				m.Set(metric, role, column)
			}
		}
	}
	return m
}
