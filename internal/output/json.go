// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/davetashner/kpimatrix/internal/series"
)

func init() {
	RegisterFormatter(NewJSONFormatter())
}

// JSONEnvelope wraps the series tree with metadata for the JSON output format.
type JSONEnvelope struct {
	Series   []JSONSeries `json:"series"`
	Metadata JSONMetadata `json:"metadata"`
}

// JSONMetadata describes the conversion that produced the tree.
type JSONMetadata struct {
	SeriesDeep  int      `json:"series_deep"`
	AxisType    string   `json:"axis_type"`
	ColumnBased bool     `json:"column_based"`
	LeafCount   int      `json:"leaf_count"`
	YMin        *float64 `json:"y_min,omitempty"`
	YMax        *float64 `json:"y_max,omitempty"`
	GeneratedAt string   `json:"generated_at"`
}

// JSONSeries is one node of the tree. Missing numbers are null.
type JSONSeries struct {
	Name                    string       `json:"name"`
	Level                   int          `json:"level"`
	Leaf                    bool         `json:"leaf"`
	CurrentValue            *float64     `json:"current_value"`
	ComparisonValue         *float64     `json:"comparison_value"`
	SecondComparisonValue   *float64     `json:"second_comparison_value,omitempty"`
	KPIIndicatorIndex       *float64     `json:"kpi_indicator_index,omitempty"`
	KPIIndicatorValue       *float64     `json:"kpi_indicator_value,omitempty"`
	SecondKPIIndicatorValue *float64     `json:"second_kpi_indicator_value,omitempty"`
	AxisValue               any          `json:"axis_value,omitempty"`
	SelectionID             string       `json:"selection_id,omitempty"`
	Hyperlink               string       `json:"hyperlink,omitempty"`
	Image                   string       `json:"image,omitempty"`
	Background              string       `json:"background,omitempty"`
	Points                  []JSONPoint  `json:"points,omitempty"`
	Children                []JSONSeries `json:"children,omitempty"`
}

// JSONPoint is one sample of a leaf.
type JSONPoint struct {
	X                any      `json:"x"`
	Actual           *float64 `json:"actual"`
	Comparison       *float64 `json:"comparison,omitempty"`
	SecondComparison *float64 `json:"second_comparison,omitempty"`
	Variance         *float64 `json:"variance,omitempty"`
	Color            string   `json:"color,omitempty"`
}

// JSONFormatter writes the tree as a JSON object with a metadata envelope.
type JSONFormatter struct {
	// Compact controls whether output is compact (single line) or pretty-printed.
	// When false (default), output is indented with two spaces.
	Compact bool

	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes the tree as a JSON document to w. Output is compact when
// Compact is set or when w is a file that is not a terminal.
func (f *JSONFormatter) Format(rep *series.DataRepresentation, w io.Writer) error {
	envelope := f.Envelope(rep)

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write json trailing newline: %w", err)
	}
	return nil
}

// Envelope builds the JSON document for rep without encoding it.
func (f *JSONFormatter) Envelope(rep *series.DataRepresentation) JSONEnvelope {
	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}

	env := JSONEnvelope{
		Series: []JSONSeries{},
		Metadata: JSONMetadata{
			AxisType:    "none",
			GeneratedAt: now.UTC().Format("2006-01-02T15:04:05Z"),
		},
	}
	if rep == nil {
		return env
	}

	for _, s := range rep.SeriesArray() {
		env.Series = append(env.Series, toJSONSeries(s))
	}
	env.Metadata.SeriesDeep = rep.SeriesDeep
	env.Metadata.AxisType = rep.Type.String()
	env.Metadata.ColumnBased = rep.IsDataColumnBasedModel
	env.Metadata.LeafCount = len(rep.Leaves())
	if rep.Y != nil && !rep.Y.Empty() {
		env.Metadata.YMin = number(rep.Y.Min)
		env.Metadata.YMax = number(rep.Y.Max)
	}
	return env
}

func toJSONSeries(s *series.Series) JSONSeries {
	out := JSONSeries{
		Name:            s.Name,
		Level:           s.Level,
		Leaf:            s.HasBeenFilled,
		CurrentValue:    number(s.CurrentValue),
		ComparisonValue: number(s.ComparisonValue),
	}
	for _, c := range s.Children.Series() {
		out.Children = append(out.Children, toJSONSeries(c))
	}
	if !s.HasBeenFilled {
		return out
	}

	out.SecondComparisonValue = number(s.SecondComparisonValue)
	out.KPIIndicatorIndex = number(s.KPIIndicatorIndex)
	out.KPIIndicatorValue = number(s.KPIIndicatorValue)
	out.SecondKPIIndicatorValue = number(s.SecondKPIIndicatorValue)
	out.AxisValue = axisValue(s.AxisValue)
	out.SelectionID = s.SelectionID
	out.Hyperlink = s.Hyperlink
	out.Image = s.Image
	out.Background = s.Background
	out.Points = toJSONPoints(s)
	return out
}

// toJSONPoints zips the point sets of a leaf by axis position.
func toJSONPoints(s *series.Series) []JSONPoint {
	actual := s.Points[series.ActualPoints]
	if actual.Len() == 0 {
		return nil
	}
	byPos := func(ps *series.PointSet) map[float64]float64 {
		m := make(map[float64]float64, ps.Len())
		if ps != nil {
			for _, p := range ps.Points {
				m[p.Position] = p.Value
			}
		}
		return m
	}
	comparison := byPos(s.Points[series.ComparisonPoints])
	second := byPos(s.Points[series.SecondComparisonPoints])

	out := make([]JSONPoint, 0, actual.Len())
	for i, p := range actual.Points {
		jp := JSONPoint{
			X:      axisValue(p.AxisValue),
			Actual: number(p.Value),
		}
		if v, ok := comparison[p.Position]; ok {
			jp.Comparison = number(v)
		}
		if v, ok := second[p.Position]; ok {
			jp.SecondComparison = number(v)
		}
		if i < len(s.VarianceSet[series.FirstVariance]) {
			jp.Variance = number(s.VarianceSet[series.FirstVariance][i])
		}
		if i < len(actual.Colors) && actual.Colors[i] != actual.Color {
			jp.Color = actual.Colors[i]
		}
		out = append(out, jp)
	}
	return out
}

// number maps non-finite values to nil so they encode as null.
func number(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func axisValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case float64:
		return number(x)
	default:
		return v
	}
}

// shouldCompact determines whether to use compact mode.
// If Compact is explicitly set, use that value.
// Otherwise, auto-detect: pretty-print for TTYs, compact for pipes.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}

	if file, ok := w.(*os.File); ok {
		fi, err := file.Stat()
		if err != nil {
			return false // default to pretty on error
		}
		if fi.Mode()&os.ModeCharDevice != 0 {
			return false // TTY -> pretty
		}
		return true // pipe/file -> compact
	}

	// For non-file writers (e.g., bytes.Buffer in tests), default to pretty.
	return false
}
