// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package converter

import (
	"log/slog"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/series"
	"github.com/davetashner/kpimatrix/internal/table"
)

// RowBased converts tables that name the metric of every row in a
// rowBasedMetricName column.
type RowBased struct{}

var _ Converter = RowBased{}

// Convert implements Converter.
func (r RowBased) Convert(opts Options) *series.DataRepresentation {
	return run(r, opts)
}

func (RowBased) columnBased() bool { return false }

// DeepSearchSeries follows levels from set one name at a time. It returns
// nil as soon as a level is missing, so only an exact path matches.
func (RowBased) DeepSearchSeries(set *series.SeriesSet, levels []string) *series.Series {
	if set == nil || len(levels) == 0 {
		return nil
	}
	s := set.Get(levels[0])
	if s == nil || len(levels) == 1 {
		return s
	}
	return RowBased{}.DeepSearchSeries(s.Children, levels[1:])
}

var rowRoles = []columns.Role{
	columns.ActualValue,
	columns.ComparisonValue,
	columns.KPIIndicatorIndex,
	columns.KPIIndicatorValue,
	columns.SecondComparisonValue,
	columns.SecondKPIIndicatorValue,
}

func (r RowBased) converterStep(c *conversion, rv rowValues, path []category, parent *series.SeriesSet) {
	nameCell, _ := rv.first(columns.RowBasedMetricName)
	name, ok := table.Text(nameCell.Value)
	if !ok {
		slog.Debug("skipping row without metric name", "row", c.rowIndex)
		return
	}

	names := append(pathNames(path), name)
	leaf := c.leafAt(r.DeepSearchSeries(c.rep.Series, names), parent, name, len(path))
	if leaf == nil {
		return
	}
	c.decorate(leaf, rv)

	smp := newSample(c.axisValue)
	for _, role := range rowRoles {
		if cl, ok := rv.first(role); ok {
			smp.set(role, cl)
		}
	}
	c.applyDataToCurrentSeries(leaf, smp, names)
}
