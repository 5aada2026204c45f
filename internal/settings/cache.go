// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package settings

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
)

// FormatOverride replaces the formatting fields of a value cell for one
// series. Nil fields keep the global value.
type FormatOverride struct {
	Format       *string  `json:"format,omitempty"`
	Precision    *int     `json:"precision,omitempty"`
	DisplayUnits *float64 `json:"displayUnits,omitempty"`
}

func (o *FormatOverride) apply(v *ValueSettings) {
	if o == nil {
		return
	}
	if o.Format != nil {
		v.Format = *o.Format
	}
	if o.Precision != nil {
		v.Precision = *o.Precision
	}
	if o.DisplayUnits != nil {
		v.DisplayUnits = *o.DisplayUnits
	}
}

// SeriesOverrides are the per-series settings edited in the host and cached
// by series name.
type SeriesOverrides struct {
	CurrentValue            *FormatOverride `json:"currentValue,omitempty"`
	ComparisonValue         *FormatOverride `json:"comparisonValue,omitempty"`
	KPIIndicatorValue       *FormatOverride `json:"kpiIndicatorValue,omitempty"`
	SecondComparisonValue   *FormatOverride `json:"secondComparisonValue,omitempty"`
	SecondKPIIndicatorValue *FormatOverride `json:"secondKPIIndicatorValue,omitempty"`
	ActualColor             *string         `json:"actualColor,omitempty"`
}

// ApplyOverrides writes o onto s.
func (s *Settings) ApplyOverrides(o SeriesOverrides) {
	o.CurrentValue.apply(&s.CurrentValue)
	o.ComparisonValue.apply(&s.ComparisonValue)
	o.KPIIndicatorValue.apply(&s.KPIIndicatorValue)
	o.SecondComparisonValue.apply(&s.SecondComparisonValue)
	o.SecondKPIIndicatorValue.apply(&s.SecondKPIIndicatorValue)
	if o.ActualColor != nil {
		s.Sparkline.ActualColor = *o.ActualColor
	}
}

// SeriesSettingsCache holds per-series overrides keyed by series name. It
// is owned by the host and read and written by the converter.
type SeriesSettingsCache struct {
	entries map[string]SeriesOverrides
}

// NewSeriesSettingsCache returns an empty cache.
func NewSeriesSettingsCache() *SeriesSettingsCache {
	return &SeriesSettingsCache{entries: make(map[string]SeriesOverrides)}
}

// ParseSeriesSettingsCache decodes a serialized cache. Malformed input is
// treated as no prior state.
func ParseSeriesSettingsCache(s string) *SeriesSettingsCache {
	c := NewSeriesSettingsCache()
	if strings.TrimSpace(s) == "" {
		return c
	}
	if err := json.Unmarshal([]byte(s), &c.entries); err != nil {
		slog.Debug("discarding malformed series settings", "error", err)
		return NewSeriesSettingsCache()
	}
	if c.entries == nil {
		c.entries = make(map[string]SeriesOverrides)
	}
	return c
}

// String serializes the cache. It returns "" if encoding fails.
func (c *SeriesSettingsCache) String() string {
	if c == nil || len(c.entries) == 0 {
		return ""
	}
	data, err := json.Marshal(c.entries)
	if err != nil {
		return ""
	}
	return string(data)
}

// Get returns the overrides cached for name.
func (c *SeriesSettingsCache) Get(name string) (SeriesOverrides, bool) {
	if c == nil {
		return SeriesOverrides{}, false
	}
	o, ok := c.entries[name]
	return o, ok
}

// Set stores the overrides of name.
func (c *SeriesSettingsCache) Set(name string, o SeriesOverrides) {
	if c.entries == nil {
		c.entries = make(map[string]SeriesOverrides)
	}
	c.entries[name] = o
}

// Ensure creates an empty entry for name if none exists.
func (c *SeriesSettingsCache) Ensure(name string) {
	if c == nil {
		return
	}
	if _, ok := c.entries[name]; !ok {
		c.Set(name, SeriesOverrides{})
	}
}

// Names returns the cached series names sorted.
func (c *SeriesSettingsCache) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.entries))
	for name := range c.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ForSeries returns a deep copy of base with the overrides of name applied.
func (c *SeriesSettingsCache) ForSeries(base *Settings, name string) *Settings {
	s := base.Clone()
	if o, ok := c.Get(name); ok {
		s.ApplyOverrides(o)
	}
	return s
}
