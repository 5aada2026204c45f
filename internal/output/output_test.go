package output

import (
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/converter"
	"github.com/davetashner/kpimatrix/internal/series"
	"github.com/davetashner/kpimatrix/internal/settings"
	"github.com/davetashner/kpimatrix/internal/table"
)

func col(name string, typ table.ValueType, roles ...columns.Role) table.Column {
	c := table.Column{DisplayName: name, Type: typ}
	for _, r := range roles {
		c.AddRole(string(r))
	}
	return c
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// fixture converts a small row-based table with two regions.
func fixture(t *testing.T) *series.DataRepresentation {
	t.Helper()
	return fixtureWith(t, nil)
}

func fixtureWith(t *testing.T, s *settings.Settings) *series.DataRepresentation {
	t.Helper()
	dv := &table.DataView{Table: &table.Table{
		Columns: []table.Column{
			col("Region", table.TypeText, columns.Category),
			col("Metric", table.TypeText, columns.RowBasedMetricName),
			col("Day", table.TypeDateTime, columns.Date),
			col("Value", table.TypeNumeric, columns.ActualValue),
			col("Target", table.TypeNumeric, columns.ComparisonValue),
		},
		Rows: [][]any{
			{"East", "Sales", day("2024-01-01"), 10.0, 8.0},
			{"East", "Sales", day("2024-01-02"), 12.0, 10.0},
			{"West", "Cost", day("2024-01-01"), 5.0, 5.0},
		},
	}}
	return converter.Convert(converter.Options{DataView: dv, Settings: s})
}

// noColor disables ANSI output for the duration of the test.
func noColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}
