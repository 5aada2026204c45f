package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/output"
	"github.com/davetashner/kpimatrix/internal/table"
)

// Validate checks all fields in the config and returns all errors at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.OutputFormat != "" {
		if _, err := output.GetFormatter(cfg.OutputFormat); err != nil {
			errs = append(errs, fmt.Sprintf("output_format: %v", err))
		}
	}

	switch cfg.ViewMode {
	case "", ViewModeView, ViewModeEdit:
	default:
		errs = append(errs, fmt.Sprintf("view_mode: invalid value %q (must be view or edit)", cfg.ViewMode))
	}

	if cfg.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("concurrency: must be non-negative, got %d", cfg.Concurrency))
	}

	for _, name := range sortedNames(cfg.Columns) {
		cc := cfg.Columns[name]
		for _, r := range cc.Roles {
			if _, ok := columns.ParseRole(r); !ok {
				errs = append(errs, fmt.Sprintf("columns.%s.roles: unknown role %q", name, r))
			}
		}
		if cc.Type != "" && table.ParseValueType(cc.Type) == table.TypeUnknown {
			errs = append(errs, fmt.Sprintf("columns.%s.type: invalid value %q (must be text, dateTime, integer, or numeric)", name, cc.Type))
		}
	}

	for _, metric := range sortedNames(cfg.ColumnMapping) {
		for r := range cfg.ColumnMapping[metric] {
			role, ok := columns.ParseRole(r)
			if !ok {
				errs = append(errs, fmt.Sprintf("column_mapping.%s: unknown role %q", metric, r))
				continue
			}
			if !isDependent(role) {
				errs = append(errs, fmt.Sprintf("column_mapping.%s: role %q cannot be mapped per metric", metric, r))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func isDependent(role columns.Role) bool {
	for _, r := range columns.DependentRoles {
		if r == role {
			return true
		}
	}
	return false
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
