// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/davetashner/kpimatrix/internal/series"
	"github.com/davetashner/kpimatrix/internal/settings"
)

func init() {
	RegisterFormatter(NewTextFormatter())
}

var (
	colorRed   = color.New(color.FgRed)
	colorGreen = color.New(color.FgGreen)
)

var shapes = map[string]string{
	"circle-full":  "●",
	"circle-empty": "○",
	"triangle":     "▲",
	"rhombus":      "◆",
	"square":       "■",
	"flag":         "⚑",
	"arrow-up":     "↑",
	"arrow-down":   "↓",
}

// TextFormatter writes the matrix as an indented, aligned table with one
// row per category and metric.
type TextFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*TextFormatter)(nil)

// NewTextFormatter returns a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// textColumn is one value column of the text table.
type textColumn struct {
	column Column
	cell   func(s *series.Series, st *settings.Settings) string
}

// Format writes the matrix to w.
func (f *TextFormatter) Format(rep *series.DataRepresentation, w io.Writer) error {
	if rep == nil || rep.Series.Len() == 0 {
		if _, err := fmt.Fprintln(w, "No KPI series."); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
		return nil
	}

	st := rep.Settings
	if st == nil {
		st = settings.Default()
	}
	cols := textColumns(st)

	header := []Column{{Header: st.MetricName.Label}}
	for _, c := range cols {
		header = append(header, c.column)
	}
	tbl := NewTable(header...)

	series.Walk(rep.Series, func(s *series.Series) {
		row := []string{strings.Repeat("  ", s.Level) + s.Name}
		leafSettings := st
		if s.Settings != nil {
			leafSettings = s.Settings
		}
		for _, c := range cols {
			if !s.HasBeenFilled && !st.Subtotal.Show {
				row = append(row, "")
				continue
			}
			row = append(row, c.cell(s, leafSettings))
		}
		tbl.AddRow(row...)
	})

	if err := tbl.Render(w); err != nil {
		return err
	}
	return nil
}

// textColumns lists the value columns visible under st.
func textColumns(st *settings.Settings) []textColumn {
	var cols []textColumn
	value := func(vs settings.ValueSettings, pick func(*series.Series) float64, group func(*settings.Settings) settings.ValueSettings) {
		if !vs.Show {
			return
		}
		cols = append(cols, textColumn{
			column: Column{Header: vs.Label, Align: AlignRight},
			cell: func(s *series.Series, leaf *settings.Settings) string {
				return FormatValue(pick(s), group(leaf))
			},
		})
	}
	variance := func(vs settings.ValueSettings, pick func(*series.Series) float64, group func(*settings.Settings) settings.ValueSettings) {
		if !vs.Show {
			return
		}
		cols = append(cols, textColumn{
			column: Column{Header: vs.Label, Align: AlignRight, Color: colorVariance},
			cell: func(s *series.Series, leaf *settings.Settings) string {
				if !s.HasBeenFilled {
					return ""
				}
				return FormatValue(pick(s), group(leaf))
			},
		})
	}

	value(st.CurrentValue,
		func(s *series.Series) float64 { return s.CurrentValue },
		func(s *settings.Settings) settings.ValueSettings { return s.CurrentValue })
	value(st.ComparisonValue,
		func(s *series.Series) float64 { return s.ComparisonValue },
		func(s *settings.Settings) settings.ValueSettings { return s.ComparisonValue })
	if st.KPIIndicator.Show {
		cols = append(cols, textColumn{
			column: Column{Header: "KPI"},
			cell:   kpiCell,
		})
	}
	variance(st.KPIIndicatorValue,
		func(s *series.Series) float64 { return s.KPIIndicatorValue },
		func(s *settings.Settings) settings.ValueSettings { return s.KPIIndicatorValue })
	value(st.SecondComparisonValue,
		func(s *series.Series) float64 { return s.SecondComparisonValue },
		func(s *settings.Settings) settings.ValueSettings { return s.SecondComparisonValue })
	variance(st.SecondKPIIndicatorValue,
		func(s *series.Series) float64 { return s.SecondKPIIndicatorValue },
		func(s *settings.Settings) settings.ValueSettings { return s.SecondKPIIndicatorValue })
	if st.Sparkline.Show {
		cols = append(cols, textColumn{
			column: Column{Header: "Trend"},
			cell: func(s *series.Series, _ *settings.Settings) string {
				return Sparkline(s)
			},
		})
	}
	return cols
}

func kpiCell(s *series.Series, st *settings.Settings) string {
	if !s.HasBeenFilled {
		return ""
	}
	kpi := st.KPIIndicator.GetCurrentKPI(s.KPIIndicatorIndex)
	if !kpi.Matched() {
		return ""
	}
	if glyph, ok := shapes[kpi.Shape]; ok {
		return glyph
	}
	return kpi.Shape
}

// colorVariance colors positive variances green and negative ones red.
func colorVariance(val string) string {
	switch {
	case val == missing:
		return val
	case strings.HasPrefix(val, "-"):
		return colorRed.Sprint(val)
	case strings.HasPrefix(val, "+"):
		return colorGreen.Sprint(val)
	default:
		return val
	}
}
