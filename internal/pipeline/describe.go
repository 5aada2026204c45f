// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package pipeline

import (
	"sort"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/converter"
	"github.com/davetashner/kpimatrix/internal/table"
)

// Variant names reported by Describe.
const (
	VariantRowBased    = "row-based"
	VariantColumnBased = "column-based"
)

// ColumnInfo describes one bound column.
type ColumnInfo struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Format string   `json:"format,omitempty"`
	Roles  []string `json:"roles,omitempty"`
}

// TableInfo summarizes how a table binds to roles without converting it.
type TableInfo struct {
	Path    string                       `json:"path"`
	Rows    int                          `json:"rows"`
	Variant string                       `json:"variant"`
	Columns []ColumnInfo                 `json:"columns"`
	Roles   columns.ColumnSet            `json:"roles"`
	Mapping map[string]map[string]string `json:"mapping,omitempty"`
}

// Describe loads path with the configured bindings and reports its
// columns, role bindings and the column mapping a conversion would use.
func (p *Pipeline) Describe(path string) (*TableInfo, error) {
	dv, err := table.Load(resolve(p.opts.Dir, path), table.LoadOptions{
		Sheet:    p.opts.Run.Sheet,
		Bindings: p.opts.Config.Bindings(),
	})
	if err != nil {
		return nil, err
	}

	set := columns.ConvertColumnSet(dv.Table.Columns)
	info := &TableInfo{
		Path:    path,
		Rows:    len(dv.Table.Rows),
		Variant: VariantColumnBased,
		Roles:   set,
	}
	if _, ok := converter.Select(dv).(converter.RowBased); ok {
		info.Variant = VariantRowBased
	}

	for _, c := range dv.Table.Columns {
		ci := ColumnInfo{Name: c.DisplayName, Type: string(c.Type), Format: c.Format}
		for _, r := range columns.Roles() {
			if c.HasRole(string(r)) {
				ci.Roles = append(ci.Roles, string(r))
			}
		}
		info.Columns = append(info.Columns, ci)
	}

	if info.Variant == VariantColumnBased {
		m, _ := p.tableState(TableKey(path))
		if len(m) == 0 {
			m = p.opts.Config.Mapping()
		}
		m = m.Reconcile(set)
		info.Mapping = make(map[string]map[string]string, len(m))
		for _, metric := range m.Metrics() {
			roles := make(map[string]string)
			for role, col := range m[metric] {
				roles[string(role)] = col
			}
			info.Mapping[metric] = roles
		}
	}
	return info, nil
}

// RoleNames returns the roles bound in info, sorted.
func (info *TableInfo) RoleNames() []string {
	names := make([]string, 0, len(info.Roles))
	for r := range info.Roles {
		names = append(names, string(r))
	}
	sort.Strings(names)
	return names
}
