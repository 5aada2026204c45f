package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/mapping"
	"github.com/davetashner/kpimatrix/internal/settings"
)

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, s.Tables)
	assert.Equal(t, schemaVersion, s.Version)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	oldNow := nowFunc
	defer func() { nowFunc = oldNow }()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	nowFunc = func() time.Time { return fixed }

	dir := t.TempDir()
	m := make(mapping.ColumnMapping)
	m.Set("Revenue", columns.ComparisonValue, "Budget")
	cache := settings.NewSeriesSettingsCache()
	cache.Ensure("Revenue")

	s := New()
	s.Update("sales.csv", m, cache)
	require.NoError(t, Save(dir, s))

	_, err := os.Stat(Path(dir) + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, fixed, loaded.UpdatedAt)
	assert.Equal(t, []string{"sales.csv"}, loaded.TableNames())

	name, ok := loaded.Mapping("sales.csv").Get("Revenue", columns.ComparisonValue)
	require.True(t, ok)
	assert.Equal(t, "Budget", name)
	assert.Equal(t, []string{"Revenue"}, loaded.SeriesSettings("sales.csv").Names())

	assert.Empty(t, loaded.Mapping("other.csv"))
	assert.Empty(t, loaded.SeriesSettings("other.csv").Names())
}

func TestLoad_CorruptIsIgnored(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, Dir), 0o750))

	require.NoError(t, os.WriteFile(Path(dir), []byte("{not json"), 0o600))
	s, err := Load(dir)
	require.NoError(t, err)
	assert.Empty(t, s.Tables)

	require.NoError(t, os.WriteFile(Path(dir), []byte(`{"version":"99","tables":{"a.csv":{}}}`), 0o600))
	s, err = Load(dir)
	require.NoError(t, err)
	assert.Empty(t, s.Tables)
}

func TestUpdate_NilTables(t *testing.T) {
	s := &State{}
	s.Update("a.csv", nil, nil)
	assert.Equal(t, []string{"a.csv"}, s.TableNames())
	assert.Equal(t, TableState{}, s.Tables["a.csv"])
}
