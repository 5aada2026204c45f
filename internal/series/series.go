// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package series defines the hierarchical tree produced by conversion: the
// category and metric nodes, their point sets and the top-level
// representation handed to renderers.
package series

import (
	"math"

	"github.com/davetashner/kpimatrix/internal/axis"
	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/settings"
	"github.com/davetashner/kpimatrix/internal/table"
)

// Point set positions within Series.Points.
const (
	ActualPoints = iota
	ComparisonPoints
	SecondComparisonPoints
	pointSetCount
)

// Variance set positions within Series.VarianceSet.
const (
	FirstVariance = iota
	SecondVariance
)

// Series is a node of the tree: a category, or a metric leaf once
// HasBeenFilled is set. Leaf-only fields are meaningful on filled nodes.
type Series struct {
	Name      string
	Level     int
	SortOrder any
	Children  *SeriesSet

	HasBeenFilled bool

	CurrentValue            float64
	ComparisonValue         float64
	SecondComparisonValue   float64
	KPIIndicatorIndex       float64
	KPIIndicatorValue       float64
	SecondKPIIndicatorValue float64

	Points      [pointSetCount]*PointSet
	VarianceSet [2][]float64
	AxisValue   any
	AxisValues  []any
	X           *axis.Axis
	Y           *axis.Axis

	Settings    *settings.Settings
	SelectionID string
	Hyperlink   string
	Image       string
	Background  string
}

// New returns an empty category node at level.
func New(name string, level int) *Series {
	return &Series{
		Name:                    name,
		Level:                   level,
		Children:                NewSeriesSet(),
		CurrentValue:            math.NaN(),
		ComparisonValue:         math.NaN(),
		SecondComparisonValue:   math.NaN(),
		KPIIndicatorIndex:       math.NaN(),
		KPIIndicatorValue:       math.NaN(),
		SecondKPIIndicatorValue: math.NaN(),
	}
}

// IsLeaf reports whether the node is a filled metric.
func (s *Series) IsLeaf() bool {
	return s.HasBeenFilled
}

// SetLevel moves the node and its subtree to level.
func (s *Series) SetLevel(level int) {
	s.Level = level
	for _, c := range s.Children.Series() {
		c.SetLevel(level + 1)
	}
}

// Point is one sample of a point set.
type Point struct {
	AxisValue any
	Position  float64
	Value     float64
}

// PointSet is one line of a sparkline.
type PointSet struct {
	Points              []Point
	Color               string
	Thickness           float64
	LineStyle           string
	Colors              []string
	KPIIndicatorIndexes []float64
	Min                 float64
	Max                 float64
}

// NewPointSet returns an empty point set drawn with color.
func NewPointSet(color string, thickness float64, lineStyle string) *PointSet {
	return &PointSet{
		Color:     color,
		Thickness: thickness,
		LineStyle: lineStyle,
		Min:       math.Inf(1),
		Max:       math.Inf(-1),
	}
}

// Add appends a point with its KPI index and color, widening the bounds.
func (p *PointSet) Add(pt Point, kpiIndex float64, color string) {
	p.Points = append(p.Points, pt)
	p.KPIIndicatorIndexes = append(p.KPIIndicatorIndexes, kpiIndex)
	p.Colors = append(p.Colors, color)
	if pt.Value < p.Min {
		p.Min = pt.Value
	}
	if pt.Value > p.Max {
		p.Max = pt.Value
	}
}

// Len returns the number of points.
func (p *PointSet) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Points)
}

// DataRepresentation is the result of one conversion.
type DataRepresentation struct {
	Series                 *SeriesSet
	SeriesDeep             int
	Type                   axis.Type
	Columns                map[columns.Role][]table.Column
	Y                      *axis.Axis
	IsDataColumnBasedModel bool
	Settings               *settings.Settings
}

// NewDataRepresentation returns the empty representation.
func NewDataRepresentation(s *settings.Settings) *DataRepresentation {
	return &DataRepresentation{
		Series:   NewSeriesSet(),
		Type:     axis.None,
		Columns:  make(map[columns.Role][]table.Column),
		Y:        axis.New(axis.Number),
		Settings: s,
	}
}

// SeriesArray returns the root series in order. It never returns nil.
func (d *DataRepresentation) SeriesArray() []*Series {
	out := d.Series.Series()
	if out == nil {
		return []*Series{}
	}
	return out
}

// Leaves returns the filled series of the tree in display order.
func (d *DataRepresentation) Leaves() []*Series {
	var out []*Series
	Walk(d.Series, func(s *Series) {
		if s.HasBeenFilled {
			out = append(out, s)
		}
	})
	return out
}

// Walk visits every series of set depth-first in display order.
func Walk(set *SeriesSet, fn func(*Series)) {
	for _, s := range set.Series() {
		fn(s)
		Walk(s.Children, fn)
	}
}
