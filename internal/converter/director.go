// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package converter

import (
	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/series"
	"github.com/davetashner/kpimatrix/internal/table"
)

// Select returns the row-based converter when the table carries a
// row-based metric name column, and the column-based converter otherwise.
func Select(dv *table.DataView) Converter {
	if dv.HasRole(string(columns.RowBasedMetricName)) {
		return RowBased{}
	}
	return ColumnBased{}
}

// Convert selects the converter for opts.DataView and runs it.
func Convert(opts Options) *series.DataRepresentation {
	return Select(opts.DataView).Convert(opts)
}
