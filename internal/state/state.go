// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package state persists the host-owned state of the converter between
// runs: the column mapping and the series settings cache of every table.
//
// Both are stored in their serialized string form, the way a host keeps
// them in its property bag, under <dir>/.kpimatrix/state.json.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/davetashner/kpimatrix/internal/mapping"
	"github.com/davetashner/kpimatrix/internal/settings"
	"github.com/davetashner/kpimatrix/internal/testable"
)

// Dir is the directory name within the working directory where state is
// stored.
const Dir = ".kpimatrix"

// stateFile is the filename for persisted state.
const stateFile = "state.json"

// schemaVersion is the current state file schema version.
const schemaVersion = "1"

// FS is the file system implementation used by this package.
// Override in tests with a testable.MockFileSystem.
var FS testable.FileSystem = testable.DefaultFS

// nowFunc is the clock used for UpdatedAt. Override in tests.
var nowFunc = time.Now

// TableState is the persisted state of one table, keyed by its file name.
type TableState struct {
	ColumnMapping  string `json:"column_mapping,omitempty"`
	SeriesSettings string `json:"series_settings,omitempty"`
}

// State is the content of the state file.
type State struct {
	Version   string                `json:"version"`
	UpdatedAt time.Time             `json:"updated_at"`
	Tables    map[string]TableState `json:"tables"`
}

// New returns empty state.
func New() *State {
	return &State{Version: schemaVersion, Tables: make(map[string]TableState)}
}

// Path returns the state file path under dir.
func Path(dir string) string {
	return filepath.Join(dir, Dir, stateFile)
}

// Load reads the state stored under dir. A missing file yields empty
// state. A corrupt file is logged and treated as no prior state.
func Load(dir string) (*State, error) {
	data, err := FS.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		slog.Warn("ignoring corrupt state file", "path", Path(dir), "error", err)
		return New(), nil
	}
	if s.Version != schemaVersion {
		slog.Warn("ignoring state file with unknown version", "path", Path(dir), "version", s.Version)
		return New(), nil
	}
	if s.Tables == nil {
		s.Tables = make(map[string]TableState)
	}
	return &s, nil
}

// Save writes s under dir, creating the state directory if needed. The
// file is written to a temporary name and renamed into place.
func Save(dir string, s *State) error {
	if err := FS.MkdirAll(filepath.Join(dir, Dir), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	s.Version = schemaVersion
	s.UpdatedAt = nowFunc().UTC()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	path := Path(dir)
	tmp := path + ".tmp"
	if err := FS.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := FS.Rename(tmp, path); err != nil {
		_ = FS.Remove(tmp)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Mapping returns the parsed column mapping of table.
func (s *State) Mapping(table string) mapping.ColumnMapping {
	return mapping.Parse(s.Tables[table].ColumnMapping)
}

// SeriesSettings returns the parsed series settings cache of table.
func (s *State) SeriesSettings(table string) *settings.SeriesSettingsCache {
	return settings.ParseSeriesSettingsCache(s.Tables[table].SeriesSettings)
}

// Update stores the serialized mapping and cache of table.
func (s *State) Update(table string, m mapping.ColumnMapping, cache *settings.SeriesSettingsCache) {
	if s.Tables == nil {
		s.Tables = make(map[string]TableState)
	}
	s.Tables[table] = TableState{
		ColumnMapping:  m.String(),
		SeriesSettings: cache.String(),
	}
}

// TableNames returns the names of the tables with stored state, sorted.
func (s *State) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for name := range s.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
