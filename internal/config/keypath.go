package config

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davetashner/kpimatrix/internal/columns"
)

// GetValue retrieves a value from a Config by dot-notation key path.
// Scalars come back as-is; a path ending at a column block or a mapped
// metric yields a map, and columns.<name>.roles a list.
func GetValue(cfg *Config, keyPath string) (any, error) {
	m, err := ToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}

	var node any = m
	for _, part := range strings.Split(keyPath, ".") {
		parent, ok := node.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("key %q: parent is not a map", part)
		}
		if node, ok = parent[part]; !ok {
			return nil, fmt.Errorf("key %q not found", keyPath)
		}
	}
	return node, nil
}

// SetValue sets a value in a raw YAML map by dot-notation key path,
// creating intermediate maps as needed. Values under columns and
// column_mapping stay strings; columns.<name>.roles takes a comma-separated
// list.
func SetValue(data map[string]any, keyPath string, rawValue string) error {
	if keyPath == "" {
		return fmt.Errorf("empty key path")
	}
	parts := strings.Split(keyPath, ".")
	section, leaf := parts[0], parts[len(parts)-1]

	target := data
	for _, part := range parts[:len(parts)-1] {
		switch child := target[part].(type) {
		case nil:
			next := make(map[string]any)
			target[part] = next
			target = next
		case map[string]any:
			target = child
		default:
			return fmt.Errorf("key %q is not a map", part)
		}
	}

	switch {
	case section == "columns" && leaf == "roles":
		target[leaf] = splitRoles(rawValue)
	case section == "columns", section == "column_mapping":
		target[leaf] = rawValue
	default:
		target[leaf] = coerceValue(rawValue)
	}
	return nil
}

func splitRoles(raw string) []any {
	var roles []any
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			roles = append(roles, r)
		}
	}
	return roles
}

// FlattenMap flattens a nested map to dot-notation keys under prefix.
func FlattenMap(m map[string]any, prefix string) map[string]any {
	flat := make(map[string]any)
	var walk func(node map[string]any, path string)
	walk = func(node map[string]any, path string) {
		for k, v := range node {
			key := k
			if path != "" {
				key = path + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(sub, key)
				continue
			}
			flat[key] = v
		}
	}
	walk(m, prefix)
	return flat
}

// ValidateKeyPath checks that a dot-notation key path names a settable
// field: a top-level scalar, columns.<column>[.<field>], or
// column_mapping.<metric>.<dependent role>.
func ValidateKeyPath(keyPath string) error {
	if keyPath == "" {
		return fmt.Errorf("empty key path")
	}
	parts := strings.Split(keyPath, ".")

	top := fieldNames(reflect.TypeFor[Config]())
	if !slices.Contains(top, parts[0]) {
		return fmt.Errorf("unknown key %q; valid top-level keys: %s", parts[0], strings.Join(top, ", "))
	}

	switch parts[0] {
	case "columns":
		switch len(parts) {
		case 1:
			return fmt.Errorf("columns requires a column name (e.g. columns.Revenue.roles)")
		case 2:
			return nil
		case 3:
			fields := fieldNames(reflect.TypeFor[ColumnConfig]())
			if !slices.Contains(fields, parts[2]) {
				return fmt.Errorf("unknown column field %q; valid fields: %s", parts[2], strings.Join(fields, ", "))
			}
			return nil
		}
		return fmt.Errorf("key path too deep: %q", keyPath)

	case "column_mapping":
		if len(parts) != 3 {
			return fmt.Errorf("column_mapping requires a metric and a role (e.g. column_mapping.Revenue.comparisonValue)")
		}
		if role, ok := columns.ParseRole(parts[2]); ok && isDependent(role) {
			return nil
		}
		names := make([]string, len(columns.DependentRoles))
		for i, r := range columns.DependentRoles {
			names[i] = string(r)
		}
		return fmt.Errorf("unknown mapped role %q; valid roles: %s", parts[2], strings.Join(names, ", "))
	}

	if len(parts) > 1 {
		return fmt.Errorf("key %q is a scalar; cannot use sub-keys", parts[0])
	}
	return nil
}

// ToMap marshals a Config to a map via YAML round-trip.
func ToMap(cfg *Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any)
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// coerceValue parses a string into bool, int, float64, or keeps it as string.
// Floats need a decimal point so that values like 1e3 stay text.
func coerceValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// fieldNames lists the yaml names of t's fields, sorted.
func fieldNames(t reflect.Type) []string {
	var names []string
	for i := range t.NumField() {
		if name, _, _ := strings.Cut(t.Field(i).Tag.Get("yaml"), ","); name != "" && name != "-" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
