// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package pipeline loads table files, converts them into series trees and
// keeps the externally owned state of each table between runs.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/config"
	"github.com/davetashner/kpimatrix/internal/converter"
	"github.com/davetashner/kpimatrix/internal/mapping"
	"github.com/davetashner/kpimatrix/internal/series"
	"github.com/davetashner/kpimatrix/internal/settings"
	"github.com/davetashner/kpimatrix/internal/state"
	"github.com/davetashner/kpimatrix/internal/table"
)

// DefaultConcurrency bounds parallel conversions when none is configured.
const DefaultConcurrency = 4

// Options configure a Pipeline.
type Options struct {
	// Dir is the working directory; relative state and settings paths
	// resolve against it.
	Dir    string
	Config *config.Config
	Run    config.RunConfig

	// KeepGoing records failures in Result.Err instead of aborting Run.
	KeepGoing bool
}

// Result is the outcome of converting one table file.
type Result struct {
	Path     string
	Key      string
	Rep      *series.DataRepresentation
	Duration time.Duration
	Err      error
}

// Pipeline converts table files with shared settings and state.
type Pipeline struct {
	opts     Options
	settings *settings.Settings
	stateDir string

	mu    sync.Mutex
	state *state.State
	dirty bool
}

// New creates a Pipeline. It loads the settings file and, unless state is
// disabled, the stored state.
func New(opts Options) (*Pipeline, error) {
	if opts.Config == nil {
		opts.Config = &config.Config{}
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	s, err := settings.Load(resolve(opts.Dir, opts.Run.SettingsFile))
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		opts:     opts,
		settings: s,
		stateDir: opts.Dir,
		state:    state.New(),
	}
	if opts.Run.StateDir != "" {
		p.stateDir = resolve(opts.Dir, opts.Run.StateDir)
	}
	if !opts.Run.NoState {
		st, err := state.Load(p.stateDir)
		if err != nil {
			return nil, err
		}
		p.state = st
	}
	return p, nil
}

// Settings returns the base settings every conversion starts from.
func (p *Pipeline) Settings() *settings.Settings {
	return p.settings
}

// Run converts every path concurrently and returns the results in the
// order of paths. The first failure cancels the remaining conversions
// unless KeepGoing is set.
func (p *Pipeline) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	limit := p.opts.Run.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			res, err := p.Convert(ctx, path)
			if err != nil {
				if !p.opts.KeepGoing {
					return err
				}
				slog.Warn("conversion failed", "path", path, "error", err)
				results[i] = Result{Path: path, Key: TableKey(path), Err: err}
				return nil
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Convert loads and converts a single table file and records its state.
func (p *Pipeline) Convert(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	dv, err := table.Load(resolve(p.opts.Dir, path), table.LoadOptions{
		Sheet:    p.opts.Run.Sheet,
		Bindings: p.opts.Config.Bindings(),
	})
	if err != nil {
		return nil, err
	}

	key := TableKey(path)
	m, cache := p.tableState(key)
	if len(m) == 0 {
		m = p.opts.Config.Mapping()
	}
	m = m.Reconcile(columns.ConvertColumnSet(dv.Table.Columns))

	mode := converter.View
	if p.opts.Run.ViewMode == config.ViewModeEdit {
		mode = converter.Edit
	}

	rep := converter.Convert(converter.Options{
		DataView:      dv,
		ColumnMapping: m,
		Settings:      p.settings,
		SettingsState: cache,
		ViewMode:      mode,
	})

	p.mu.Lock()
	p.state.Update(key, m, cache)
	p.dirty = true
	p.mu.Unlock()

	res := &Result{Path: path, Key: key, Rep: rep, Duration: time.Since(start)}
	slog.Debug("converted table", "path", path, "series", rep.Series.Len(), "depth", rep.SeriesDeep, "duration", res.Duration)
	return res, nil
}

func (p *Pipeline) tableState(key string) (mapping.ColumnMapping, *settings.SeriesSettingsCache) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Mapping(key), p.state.SeriesSettings(key)
}

// Save persists the state recorded by conversions. It is a no-op when
// state is disabled or nothing was converted.
func (p *Pipeline) Save() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.opts.Run.NoState || !p.dirty {
		return nil
	}
	if err := state.Save(p.stateDir, p.state); err != nil {
		return err
	}
	p.dirty = false
	return nil
}

// TableKey identifies a table in the state file.
func TableKey(path string) string {
	return filepath.Base(path)
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
