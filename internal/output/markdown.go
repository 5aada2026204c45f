// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/davetashner/kpimatrix/internal/series"
	"github.com/davetashner/kpimatrix/internal/settings"
)

func init() {
	RegisterFormatter(NewMarkdownFormatter())
}

// MarkdownFormatter writes the matrix as a Markdown summary: one section
// per top-level category with a table of its metrics.
type MarkdownFormatter struct{}

// Compile-time interface check.
var _ Formatter = (*MarkdownFormatter)(nil)

// NewMarkdownFormatter returns a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Name returns the format name.
func (m *MarkdownFormatter) Name() string {
	return "markdown"
}

// Format writes the matrix as Markdown to w. Nothing is written for an
// empty matrix.
func (m *MarkdownFormatter) Format(rep *series.DataRepresentation, w io.Writer) error {
	if rep == nil || rep.Series.Len() == 0 {
		return nil
	}
	st := rep.Settings
	if st == nil {
		st = settings.Default()
	}

	if err := writeHeader(w, rep); err != nil {
		return err
	}

	var loose []*series.Series
	for _, root := range rep.SeriesArray() {
		if root.HasBeenFilled {
			loose = append(loose, root)
			continue
		}
		if err := writeSection(w, root, st); err != nil {
			return err
		}
	}
	if len(loose) > 0 {
		if _, err := fmt.Fprintf(w, "## Metrics\n\n"); err != nil {
			return fmt.Errorf("write section heading: %w", err)
		}
		if err := writeMetricTable(w, loose, nil, st); err != nil {
			return err
		}
	}
	return nil
}

// writeHeader writes the Markdown title and summary line.
func writeHeader(w io.Writer, rep *series.DataRepresentation) error {
	if _, err := fmt.Fprintf(w, "# KPI Matrix\n\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := fmt.Fprintf(w, "**Metrics:** %d | **Depth:** %d | **Axis:** %s\n\n",
		len(rep.Leaves()), rep.SeriesDeep, rep.Type); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// writeSection writes one top-level category and every metric beneath it.
func writeSection(w io.Writer, root *series.Series, st *settings.Settings) error {
	heading := root.Name
	if st.Subtotal.Show {
		heading += fmt.Sprintf(" (%s: %s)", st.Subtotal.Label, FormatValue(root.CurrentValue, st.CurrentValue))
	}
	if _, err := fmt.Fprintf(w, "## %s\n\n", escapeCell(heading)); err != nil {
		return fmt.Errorf("write section heading: %w", err)
	}

	var leaves []*series.Series
	paths := make(map[*series.Series]string)
	var visit func(s *series.Series, path []string)
	visit = func(s *series.Series, path []string) {
		for _, c := range s.Children.Series() {
			if c.HasBeenFilled {
				leaves = append(leaves, c)
				paths[c] = strings.Join(path, " / ")
				continue
			}
			visit(c, append(path, c.Name))
		}
	}
	visit(root, nil)
	return writeMetricTable(w, leaves, paths, st)
}

// writeMetricTable writes a table of leaves. A Path column is added when
// any leaf sits below a nested category.
func writeMetricTable(w io.Writer, leaves []*series.Series, paths map[*series.Series]string, st *settings.Settings) error {
	withPath := false
	for _, p := range paths {
		if p != "" {
			withPath = true
			break
		}
	}

	header := []string{}
	if withPath {
		header = append(header, "Path")
	}
	header = append(header, st.MetricName.Label, st.CurrentValue.Label, st.ComparisonValue.Label, st.KPIIndicatorValue.Label, "Trend")
	if err := writeTableRow(w, header); err != nil {
		return err
	}
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	if err := writeTableRow(w, sep); err != nil {
		return err
	}

	for _, leaf := range leaves {
		ls := st
		if leaf.Settings != nil {
			ls = leaf.Settings
		}
		name := escapeCell(leaf.Name)
		if leaf.Hyperlink != "" {
			name = fmt.Sprintf("[%s](%s)", name, leaf.Hyperlink)
		}
		row := []string{}
		if withPath {
			row = append(row, escapeCell(paths[leaf]))
		}
		row = append(row,
			name,
			FormatValue(leaf.CurrentValue, ls.CurrentValue),
			FormatValue(leaf.ComparisonValue, ls.ComparisonValue),
			FormatValue(leaf.KPIIndicatorValue, ls.KPIIndicatorValue),
			Sparkline(leaf),
		)
		if err := writeTableRow(w, row); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n"); err != nil {
		return fmt.Errorf("write section end: %w", err)
	}
	return nil
}

func writeTableRow(w io.Writer, cells []string) error {
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(cells, " | ")); err != nil {
		return fmt.Errorf("write table row: %w", err)
	}
	return nil
}

// escapeCell keeps pipes and newlines from breaking a table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
