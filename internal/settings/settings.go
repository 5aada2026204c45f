// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package settings defines the visual's settings groups, their defaults, and
// the per-series overrides cached between conversions.
package settings

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tiendc/go-deepcopy"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/variance"
)

// SortOrder orders siblings in the matrix.
type SortOrder string

// Sort orders.
const (
	Ascending  SortOrder = "ascending"
	Descending SortOrder = "descending"
)

// SubtotalType selects how categories aggregate their children.
type SubtotalType string

// Subtotal aggregations.
const (
	SubtotalSum   SubtotalType = "sum"
	SubtotalCount SubtotalType = "count"
)

// Settings is the full settings object of the visual.
type Settings struct {
	Table                   TableSettings        `yaml:"table" toml:"table"`
	Subtotal                SubtotalSettings     `yaml:"subtotal" toml:"subtotal"`
	MetricName              MetricNameSettings   `yaml:"metric_name" toml:"metric_name"`
	CurrentValue            ValueSettings        `yaml:"current_value" toml:"current_value"`
	ComparisonValue         ValueSettings        `yaml:"comparison_value" toml:"comparison_value"`
	KPIIndicator            KPIIndicatorSettings `yaml:"kpi_indicator" toml:"kpi_indicator"`
	KPIIndicatorValue       ValueSettings        `yaml:"kpi_indicator_value" toml:"kpi_indicator_value"`
	SecondComparisonValue   ValueSettings        `yaml:"second_comparison_value" toml:"second_comparison_value"`
	SecondKPIIndicatorValue ValueSettings        `yaml:"second_kpi_indicator_value" toml:"second_kpi_indicator_value"`
	Sparkline               SparklineSettings    `yaml:"sparkline" toml:"sparkline"`
	Date                    DateSettings         `yaml:"date" toml:"date"`
	Categories              CategorySettings     `yaml:"categories" toml:"categories"`
	Variance                VarianceSettings     `yaml:"variance" toml:"variance"`
}

// TableSettings are the behavioral flags of the matrix.
type TableSettings struct {
	SortOrder            SortOrder `yaml:"sort_order" toml:"sort_order"`
	HideUnmappedMetrics  bool      `yaml:"hide_unmapped_metrics" toml:"hide_unmapped_metrics"`
	UnmappedCategoryName string    `yaml:"unmapped_category_name" toml:"unmapped_category_name"`
	TreatZeroAsNull      bool      `yaml:"treat_zero_as_null" toml:"treat_zero_as_null"`
	OddRowBackground     string    `yaml:"odd_row_background" toml:"odd_row_background"`
	EvenRowBackground    string    `yaml:"even_row_background" toml:"even_row_background"`
}

// SubtotalSettings control category aggregation.
type SubtotalSettings struct {
	Show  bool         `yaml:"show" toml:"show"`
	Type  SubtotalType `yaml:"type" toml:"type"`
	Label string       `yaml:"label" toml:"label"`
}

// MetricNameSettings describe the metric name cell. The Has* flags are
// derived per series during conversion and never loaded from files.
type MetricNameSettings struct {
	Show      bool    `yaml:"show" toml:"show"`
	Label     string  `yaml:"label" toml:"label"`
	FontColor string  `yaml:"font_color" toml:"font_color"`
	FontSize  float64 `yaml:"font_size" toml:"font_size"`
	Bold      bool    `yaml:"bold" toml:"bold"`

	HasHyperlink         bool `yaml:"-" toml:"-"`
	HasImage             bool `yaml:"-" toml:"-"`
	HideCommonProperties bool `yaml:"-" toml:"-"`
}

// ValueSettings describe a numeric value cell.
type ValueSettings struct {
	Show         bool    `yaml:"show" toml:"show"`
	Label        string  `yaml:"label" toml:"label"`
	Format       string  `yaml:"format" toml:"format"`
	Precision    int     `yaml:"precision" toml:"precision"` // -1 is automatic
	DisplayUnits float64 `yaml:"display_units" toml:"display_units"`
	FontColor    string  `yaml:"font_color" toml:"font_color"`
	Order        int     `yaml:"order" toml:"order"`
}

// SparklineSettings describe the sparkline lines.
type SparklineSettings struct {
	Show                  bool    `yaml:"show" toml:"show"`
	ShareYAxis            bool    `yaml:"share_y_axis" toml:"share_y_axis"`
	UseKPIColors          bool    `yaml:"use_kpi_colors" toml:"use_kpi_colors"`
	ActualColor           string  `yaml:"actual_color" toml:"actual_color"`
	ComparisonColor       string  `yaml:"comparison_color" toml:"comparison_color"`
	SecondComparisonColor string  `yaml:"second_comparison_color" toml:"second_comparison_color"`
	Thickness             float64 `yaml:"thickness" toml:"thickness"`
	LineStyle             string  `yaml:"line_style" toml:"line_style"`
}

// DateSettings describe how axis values are shown.
type DateSettings struct {
	Format string `yaml:"format" toml:"format"`
}

// CategoryLevel describes one category column of the matrix.
type CategoryLevel struct {
	Show   bool    `yaml:"show" toml:"show"`
	Width  float64 `yaml:"width" toml:"width"`
	Hidden bool    `yaml:"-" toml:"-"`
}

// CategorySettings hold one entry per possible category level.
type CategorySettings struct {
	Levels [columns.MaxCategories]CategoryLevel `yaml:"levels" toml:"levels"`
}

// VarianceSettings select the variance strategy.
type VarianceSettings struct {
	Mode string `yaml:"mode" toml:"mode"`
}

func defaultValue(label string, show bool) ValueSettings {
	return ValueSettings{
		Show:         show,
		Label:        label,
		Precision:    -1,
		DisplayUnits: 0,
	}
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	s := &Settings{
		Table: TableSettings{
			SortOrder:            Ascending,
			UnmappedCategoryName: "Other",
			OddRowBackground:     "",
			EvenRowBackground:    "#f2f2f2",
		},
		Subtotal: SubtotalSettings{
			Show:  false,
			Type:  SubtotalSum,
			Label: "Total",
		},
		MetricName: MetricNameSettings{
			Show:      true,
			Label:     "Metric",
			FontColor: "#4a4a4a",
			FontSize:  9,
		},
		CurrentValue:            defaultValue("Current", true),
		ComparisonValue:         defaultValue("Comparison", true),
		KPIIndicator:            defaultKPIIndicator(),
		KPIIndicatorValue:       defaultValue("Variance", true),
		SecondComparisonValue:   defaultValue("Second comparison", true),
		SecondKPIIndicatorValue: defaultValue("Second variance", true),
		Sparkline: SparklineSettings{
			Show:                  true,
			ActualColor:           "#01b8aa",
			ComparisonColor:       "#374649",
			SecondComparisonColor: "#fd625e",
			Thickness:             1,
			LineStyle:             "solid",
		},
		Variance: VarianceSettings{Mode: "percentage"},
	}
	s.KPIIndicatorValue.Format = "+0.00%;-0.00%;0.00%"
	s.SecondKPIIndicatorValue.Format = "+0.00%;-0.00%;0.00%"
	for i := range s.Categories.Levels {
		s.Categories.Levels[i] = CategoryLevel{Show: true, Width: 120}
	}
	return s
}

// Clone returns a deep copy of s.
func (s *Settings) Clone() *Settings {
	if s == nil {
		return Default()
	}
	var out Settings
	if err := deepcopy.Copy(&out, s); err != nil {
		slog.Warn("settings deep copy failed, falling back to shallow copy", "error", err)
		out = *s
		out.KPIIndicator.Slots = append([]KPISlot(nil), s.KPIIndicator.Slots...)
	}
	return &out
}

// IsValueValid reports whether a current value counts as a sample.
// With TreatZeroAsNull set, zero is rejected as well.
func (s *Settings) IsValueValid(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	if s != nil && s.Table.TreatZeroAsNull && v == 0 {
		return false
	}
	return true
}

// HideDescriptors hides the category levels the data does not reach.
// depth counts tree levels including the metric level.
func (s *Settings) HideDescriptors(depth int) {
	for i := range s.Categories.Levels {
		s.Categories.Levels[i].Hidden = i >= depth-1
	}
}

// VarianceStrategy resolves the configured variance strategy, falling back
// to the default for unknown modes.
func (s *Settings) VarianceStrategy() variance.Strategy {
	if s == nil {
		return variance.Default
	}
	st, err := variance.ByName(s.Variance.Mode)
	if err != nil {
		return variance.Default
	}
	return st
}

// Validate checks enumerated fields and returns all errors at once.
func (s *Settings) Validate() error {
	var errs []string

	switch s.Table.SortOrder {
	case Ascending, Descending, "":
	default:
		errs = append(errs, fmt.Sprintf("table.sort_order: invalid value %q (must be ascending or descending)", s.Table.SortOrder))
	}

	switch s.Subtotal.Type {
	case SubtotalSum, SubtotalCount, "":
	default:
		errs = append(errs, fmt.Sprintf("subtotal.type: invalid value %q (must be sum or count)", s.Subtotal.Type))
	}

	if _, err := variance.ByName(s.Variance.Mode); err != nil {
		errs = append(errs, fmt.Sprintf("variance.mode: %v", err))
	}

	for i, slot := range s.KPIIndicator.Slots {
		if math.IsNaN(slot.Index) {
			errs = append(errs, fmt.Sprintf("kpi_indicator.slots[%d].index: must be a number", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
