// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package columns holds the static registry of column roles and converts a
// table's column metadata into the per-role column sets.
package columns

import (
	"strings"
)

// Role is the logical role a column plays in the matrix.
type Role string

// Column roles. A column may carry several roles.
const (
	Date                    Role = "date"
	ActualValue             Role = "actualValue"
	ComparisonValue         Role = "comparisonValue"
	KPIIndicatorIndex       Role = "kpiIndicatorIndex"
	KPIIndicatorValue       Role = "kpiIndicatorValue"
	SecondComparisonValue   Role = "secondComparisonValue"
	SecondKPIIndicatorValue Role = "secondKPIIndicatorValue"
	RowBasedMetricName      Role = "rowBasedMetricName"
	Category                Role = "category"
	Image                   Role = "image"
	SortOrder               Role = "sortOrder"
	Hyperlink               Role = "hyperlink"
)

// MaxCategories is the number of category levels a table may declare.
const MaxCategories = 5

// Kind distinguishes grouping roles from measure roles.
type Kind int

const (
	// Grouping roles shape the tree or decorate its nodes.
	Grouping Kind = iota
	// Measure roles carry numeric values applied to leaves.
	Measure
)

// Descriptor is the display metadata of a role.
type Descriptor struct {
	Role        Role
	DisplayName string
	Kind        Kind
	// MaxColumns caps how many columns may be bound to the role; 0 is unbounded.
	MaxColumns int
}

var registry = []Descriptor{
	{Role: RowBasedMetricName, DisplayName: "Row-based metric name", Kind: Grouping, MaxColumns: 1},
	{Role: Category, DisplayName: "Category", Kind: Grouping, MaxColumns: MaxCategories},
	{Role: Date, DisplayName: "Date", Kind: Grouping, MaxColumns: 1},
	{Role: ActualValue, DisplayName: "Actual value", Kind: Measure},
	{Role: ComparisonValue, DisplayName: "Comparison value", Kind: Measure},
	{Role: KPIIndicatorIndex, DisplayName: "KPI indicator index", Kind: Measure},
	{Role: KPIIndicatorValue, DisplayName: "KPI indicator value", Kind: Measure},
	{Role: SecondComparisonValue, DisplayName: "Second comparison value", Kind: Measure},
	{Role: SecondKPIIndicatorValue, DisplayName: "Second KPI indicator value", Kind: Measure},
	{Role: Image, DisplayName: "Image", Kind: Grouping, MaxColumns: MaxCategories + 1},
	{Role: SortOrder, DisplayName: "Sort order", Kind: Grouping, MaxColumns: MaxCategories + 1},
	{Role: Hyperlink, DisplayName: "Hyperlink", Kind: Grouping, MaxColumns: MaxCategories + 1},
}

// Descriptors returns the registry in declaration order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}

// Roles returns every registered role in declaration order.
func Roles() []Role {
	out := make([]Role, len(registry))
	for i, d := range registry {
		out[i] = d.Role
	}
	return out
}

// Lookup returns the descriptor of role.
func Lookup(role Role) (Descriptor, bool) {
	for _, d := range registry {
		if d.Role == role {
			return d, true
		}
	}
	return Descriptor{}, false
}

// ParseRole resolves a role name case-insensitively.
func ParseRole(name string) (Role, bool) {
	name = strings.TrimSpace(name)
	for _, d := range registry {
		if strings.EqualFold(string(d.Role), name) {
			return d.Role, true
		}
	}
	return "", false
}

// DependentRoles are the measure roles bound per metric in column-based
// tables, in the order they are applied.
var DependentRoles = []Role{
	ComparisonValue,
	KPIIndicatorIndex,
	KPIIndicatorValue,
	SecondComparisonValue,
	SecondKPIIndicatorValue,
}
