package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/table"
)

func TestMerge_CLIWins(t *testing.T) {
	file := &Config{OutputFormat: "json", Sheet: "Data", ViewMode: "edit", Concurrency: 8, StateDir: "state"}
	got := Merge(file, RunConfig{OutputFormat: "markdown", Concurrency: 2})

	assert.Equal(t, RunConfig{
		OutputFormat: "markdown",
		Sheet:        "Data",
		ViewMode:     "edit",
		Concurrency:  2,
		StateDir:     "state",
	}, got)
}

func TestMerge_ZeroFileValues(t *testing.T) {
	got := Merge(&Config{}, RunConfig{NoState: true})
	assert.Equal(t, RunConfig{NoState: true}, got)
}

func TestMergeConfigs(t *testing.T) {
	global := &Config{
		OutputFormat: "markdown",
		Sheet:        "Data",
		Columns: map[string]ColumnConfig{
			"Region": {Roles: []string{"category"}},
			"Sales":  {Roles: []string{"actualValue"}, Format: "0"},
		},
		ColumnMapping: map[string]map[string]string{
			"Sales": {"comparisonValue": "Budget"},
		},
	}
	repo := &Config{
		OutputFormat: "json",
		Columns: map[string]ColumnConfig{
			"Sales": {Roles: []string{"actualValue"}, Format: "0.00"},
		},
		ColumnMapping: map[string]map[string]string{
			"Cost": {"comparisonValue": "Plan"},
		},
	}

	merged := MergeConfigs(global, repo)
	assert.Equal(t, "json", merged.OutputFormat)
	assert.Equal(t, "Data", merged.Sheet)
	assert.Equal(t, "0.00", merged.Columns["Sales"].Format)
	assert.Contains(t, merged.Columns, "Region")
	assert.Equal(t, "Budget", merged.ColumnMapping["Sales"]["comparisonValue"])
	assert.Equal(t, "Plan", merged.ColumnMapping["Cost"]["comparisonValue"])

	// The inputs are not modified.
	assert.Equal(t, "0", global.Columns["Sales"].Format)
	assert.NotContains(t, global.ColumnMapping, "Cost")
}

func TestMergeConfigs_EmptyRepo(t *testing.T) {
	global := &Config{OutputFormat: "markdown", Concurrency: 3}
	assert.Equal(t, global, MergeConfigs(global, &Config{}))
}

func TestConfig_Bindings(t *testing.T) {
	cfg := &Config{Columns: map[string]ColumnConfig{
		"Day":     {Roles: []string{"DATE"}, Type: "datetime"},
		"Revenue": {Roles: []string{"actualValue", "bogus"}, Format: "0.0", Type: "number"},
		"Note":    {Type: "whatever"},
	}}

	b := cfg.Bindings()
	assert.Equal(t, []string{"date"}, b.Roles["Day"])
	assert.Equal(t, []string{"actualValue"}, b.Roles["Revenue"])
	assert.Equal(t, "0.0", b.Formats["Revenue"])
	assert.Equal(t, table.TypeDateTime, b.Types["Day"])
	assert.Equal(t, table.TypeNumeric, b.Types["Revenue"])
	assert.NotContains(t, b.Types, "Note")
}

func TestConfig_Mapping(t *testing.T) {
	cfg := &Config{ColumnMapping: map[string]map[string]string{
		"Revenue": {"comparisonvalue": "Budget", "nope": "X"},
	}}

	m := cfg.Mapping()
	name, ok := m.Get("Revenue", columns.ComparisonValue)
	assert.True(t, ok)
	assert.Equal(t, "Budget", name)
	assert.Len(t, m["Revenue"], 1)
}
