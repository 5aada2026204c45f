// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package mapping holds the user-maintained column mapping of column-based
// tables: for every actual-value column, which columns supply its comparison
// and KPI values.
package mapping

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"

	"github.com/davetashner/kpimatrix/internal/columns"
)

// ColumnMapping maps a metric's actual-value display name to the display
// names bound to each dependent role.
type ColumnMapping map[string]map[columns.Role]string

// Parse decodes a serialized mapping. Malformed input yields an empty
// mapping rather than an error.
func Parse(s string) ColumnMapping {
	m := make(ColumnMapping)
	if strings.TrimSpace(s) == "" {
		return m
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		slog.Debug("discarding malformed column mapping", "error", err)
		return make(ColumnMapping)
	}
	return m
}

// String serializes the mapping. It returns "" if encoding fails.
func (m ColumnMapping) String() string {
	if len(m) == 0 {
		return ""
	}
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}

// Get returns the display name bound to role for metric.
func (m ColumnMapping) Get(metric string, role columns.Role) (string, bool) {
	roles, ok := m[metric]
	if !ok {
		return "", false
	}
	name, ok := roles[role]
	return name, ok && name != ""
}

// Set binds role of metric to the column named column.
func (m ColumnMapping) Set(metric string, role columns.Role, column string) {
	roles, ok := m[metric]
	if !ok {
		roles = make(map[columns.Role]string)
		m[metric] = roles
	}
	roles[role] = column
}

// Metrics returns the mapped metric names sorted.
func (m ColumnMapping) Metrics() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Default builds the initial mapping for a column set: the i-th actual-value
// column binds the i-th column of each dependent role, or the first when
// fewer are bound.
func Default(set columns.ColumnSet) ColumnMapping {
	m := make(ColumnMapping)
	for i, metric := range set[columns.ActualValue] {
		roles := make(map[columns.Role]string)
		for _, role := range columns.DependentRoles {
			if name := set.At(role, i); name != "" {
				roles[role] = name
			}
		}
		m[metric] = roles
	}
	return m
}

// Reconcile returns a copy of m restricted to the columns present in set.
// Metrics missing from m receive their default bindings.
func (m ColumnMapping) Reconcile(set columns.ColumnSet) ColumnMapping {
	present := make(map[string]bool)
	for _, names := range set {
		for _, n := range names {
			present[n] = true
		}
	}

	defaults := Default(set)
	out := make(ColumnMapping)
	for _, metric := range set[columns.ActualValue] {
		roles := make(map[columns.Role]string)
		if existing, ok := m[metric]; ok {
			for role, name := range existing {
				if present[name] {
					roles[role] = name
				}
			}
		} else {
			for role, name := range defaults[metric] {
				roles[role] = name
			}
		}
		out[metric] = roles
	}
	return out
}
