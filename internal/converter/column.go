// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package converter

import (
	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/mapping"
	"github.com/davetashner/kpimatrix/internal/series"
)

// ColumnBased converts tables in which every actual-value column is its own
// metric. The other values of a metric come from the column mapping.
type ColumnBased struct{}

var _ Converter = ColumnBased{}

// Convert implements Converter.
func (cb ColumnBased) Convert(opts Options) *series.DataRepresentation {
	return run(cb, opts)
}

func (ColumnBased) columnBased() bool { return true }

// DeepSearchSeries looks for levels[0] in set and, failing that, searches
// every descendant level by level regardless of path. Only the first level
// name is matched.
func (ColumnBased) DeepSearchSeries(set *series.SeriesSet, levels []string) *series.Series {
	if set == nil || len(levels) == 0 {
		return nil
	}
	queue := []*series.SeriesSet{set}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if s := current.Get(levels[0]); s != nil {
			return s
		}
		for _, child := range current.Series() {
			if child.Children.Len() > 0 {
				queue = append(queue, child.Children)
			}
		}
	}
	return nil
}

var mappedRoles = []columns.Role{
	columns.ComparisonValue,
	columns.KPIIndicatorIndex,
	columns.KPIIndicatorValue,
	columns.SecondComparisonValue,
	columns.SecondKPIIndicatorValue,
}

func (cb ColumnBased) converterStep(c *conversion, rv rowValues, path []category, parent *series.SeriesSet) {
	var fallback mapping.ColumnMapping
	for _, actual := range rv.byRole[columns.ActualValue] {
		name := actual.Column
		leaf := c.leafAt(cb.DeepSearchSeries(parent, []string{name}), parent, name, len(path))
		if leaf == nil {
			continue
		}
		c.decorate(leaf, rv)

		binding := c.mapping
		if _, ok := binding[name]; !ok {
			if fallback == nil {
				fallback = mapping.Default(c.columnSet)
			}
			binding = fallback
		}

		smp := newSample(c.axisValue)
		smp.set(columns.ActualValue, actual)
		for _, role := range mappedRoles {
			col, ok := binding.Get(name, role)
			if !ok {
				continue
			}
			if cl, ok := rv.named(col); ok {
				smp.set(role, cl)
			}
		}
		c.applyDataToCurrentSeries(leaf, smp, append(pathNames(path), name))
	}
}
