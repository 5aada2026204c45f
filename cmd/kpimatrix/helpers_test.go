package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davetashner/kpimatrix/internal/config"
)

const salesCSV = `Region,Metric,Day,Value,Target
East,Sales,2024-01-01,10,8
East,Sales,2024-01-02,12,10
West,Cost,2024-01-01,5,5
`

const salesConfig = `columns:
  Region:
    roles: [category]
  Metric:
    roles: [rowBasedMetricName]
  Day:
    roles: [date]
  Value:
    roles: [actualValue]
  Target:
    roles: [comparisonValue]
`

// chdirTemp switches into a fresh directory with an isolated global config
// location and restores the working directory on cleanup.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	return dir
}

// setupSalesDir prepares a working directory holding sales.csv and a
// config that binds its columns.
func setupSalesDir(t *testing.T) string {
	t.Helper()
	dir := chdirTemp(t)
	writeTestFile(t, dir, config.FileName, salesConfig)
	writeTestFile(t, dir, "sales.csv", salesCSV)
	return dir
}

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
