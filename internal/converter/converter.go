// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package converter turns a role-tagged table into the hierarchical series
// tree of the matrix. Two variants exist: row-based tables name the metric
// of every row in a dedicated column, column-based tables carry one metric
// per actual-value column.
package converter

import (
	"strings"

	"github.com/google/uuid"

	"github.com/davetashner/kpimatrix/internal/mapping"
	"github.com/davetashner/kpimatrix/internal/series"
	"github.com/davetashner/kpimatrix/internal/settings"
	"github.com/davetashner/kpimatrix/internal/table"
)

// ViewMode is the host's current mode.
type ViewMode int

const (
	// View is the read-only mode.
	View ViewMode = iota
	// Edit is the mode in which per-series settings are edited.
	Edit
)

// SelectionIDFunc produces the opaque identity of the series at path.
type SelectionIDFunc func(path []string) string

// Palette returns the color of the n-th filled series.
type Palette func(n int) string

// Options are the inputs of one conversion.
type Options struct {
	DataView      *table.DataView
	ColumnMapping mapping.ColumnMapping
	Settings      *settings.Settings
	SettingsState *settings.SeriesSettingsCache
	ViewMode      ViewMode

	// SelectionID defaults to DefaultSelectionID.
	SelectionID SelectionIDFunc
	// Palette is consulted when no actual line color is configured.
	Palette Palette
}

// Converter converts a table into a series tree. Conversion never fails:
// invalid input yields an empty representation.
type Converter interface {
	Convert(opts Options) *series.DataRepresentation
}

var selectionNamespace = uuid.MustParse("6f1c2a4e-8d3b-4c5a-9e7f-2b1d0c9a8e76")

// DefaultSelectionID derives a stable name-based UUID from the series path.
func DefaultSelectionID(path []string) string {
	return uuid.NewSHA1(selectionNamespace, []byte(strings.Join(path, "\x1f"))).String()
}
