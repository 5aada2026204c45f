package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/config"
	"github.com/davetashner/kpimatrix/internal/table"
)

func TestDescribe_RowBased(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.csv", salesCSV)

	p, err := New(Options{Dir: dir, Config: rowBasedConfig()})
	require.NoError(t, err)

	info, err := p.Describe("a.csv")
	require.NoError(t, err)
	assert.Equal(t, VariantRowBased, info.Variant)
	assert.Equal(t, 3, info.Rows)
	assert.Nil(t, info.Mapping)
	require.Len(t, info.Columns, 5)
	assert.Equal(t, ColumnInfo{Name: "Day", Type: string(table.TypeDateTime), Roles: []string{"date"}}, info.Columns[2])
	assert.Equal(t, []string{"Region"}, info.Roles[columns.Category])
	assert.Equal(t, []string{"actualValue", "category", "comparisonValue", "date", "rowBasedMetricName"}, info.RoleNames())
}

func TestDescribe_ColumnBasedMapping(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "c.csv", "Day,Revenue,Cost,Budget\n2024-01-01,110,40,100\n")

	cfg := &config.Config{Columns: map[string]config.ColumnConfig{
		"Day":     {Roles: []string{"date"}},
		"Revenue": {Roles: []string{"actualValue"}},
		"Cost":    {Roles: []string{"actualValue"}},
		"Budget":  {Roles: []string{"comparisonValue"}},
	}}
	p, err := New(Options{Dir: dir, Config: cfg, Run: config.RunConfig{NoState: true}})
	require.NoError(t, err)

	info, err := p.Describe("c.csv")
	require.NoError(t, err)
	assert.Equal(t, VariantColumnBased, info.Variant)
	assert.Equal(t, map[string]map[string]string{
		"Revenue": {"comparisonValue": "Budget"},
		"Cost":    {"comparisonValue": "Budget"},
	}, info.Mapping)
}

func TestDescribe_Unsupported(t *testing.T) {
	p, err := New(Options{Dir: t.TempDir()})
	require.NoError(t, err)
	_, err = p.Describe("notes.txt")
	assert.ErrorIs(t, err, table.ErrUnsupportedFormat)
}
