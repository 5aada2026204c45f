// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package table models the role-tagged table a host hands to the converter
// and loads such tables from CSV, XLSX and JSON files.
package table

// ValueType is the declared type of a column's values.
type ValueType string

// Declared column value types.
const (
	TypeUnknown  ValueType = ""
	TypeText     ValueType = "text"
	TypeDateTime ValueType = "dateTime"
	TypeInteger  ValueType = "integer"
	TypeNumeric  ValueType = "numeric"
)

// ParseValueType maps a configured type name to a ValueType.
// Unrecognized names map to TypeUnknown.
func ParseValueType(s string) ValueType {
	switch s {
	case "text", "string":
		return TypeText
	case "dateTime", "datetime", "date", "time":
		return TypeDateTime
	case "integer", "int":
		return TypeInteger
	case "numeric", "number", "float", "decimal":
		return TypeNumeric
	default:
		return TypeUnknown
	}
}

// Column is the metadata of one table column.
type Column struct {
	DisplayName string          `json:"displayName"`
	Roles       map[string]bool `json:"roles,omitempty"`
	Format      string          `json:"format,omitempty"`
	Type        ValueType       `json:"type,omitempty"`
}

// HasRole reports whether the column is tagged with role.
func (c Column) HasRole(role string) bool {
	return c.Roles[role]
}

// AddRole tags the column with role.
func (c *Column) AddRole(role string) {
	if c.Roles == nil {
		c.Roles = make(map[string]bool)
	}
	c.Roles[role] = true
}

// Table is an ordered list of rows aligned to an ordered list of columns.
// A nil row is tolerated and skipped by consumers.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// DataView wraps the table the way the host delivers it.
type DataView struct {
	Table *Table `json:"table"`
}

// Valid reports whether dv carries a table with at least one column and row.
func (dv *DataView) Valid() bool {
	return dv != nil &&
		dv.Table != nil &&
		len(dv.Table.Columns) > 0 &&
		len(dv.Table.Rows) > 0
}

// HasRole reports whether any column of the table is tagged with role.
func (dv *DataView) HasRole(role string) bool {
	if dv == nil || dv.Table == nil {
		return false
	}
	for _, c := range dv.Table.Columns {
		if c.HasRole(role) {
			return true
		}
	}
	return false
}

// FirstColumn returns the first column tagged with role and its index,
// or -1 when no column carries the role.
func (t *Table) FirstColumn(role string) (Column, int) {
	if t == nil {
		return Column{}, -1
	}
	for i, c := range t.Columns {
		if c.HasRole(role) {
			return c, i
		}
	}
	return Column{}, -1
}
