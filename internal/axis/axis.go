// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package axis tracks the bounds of a sparkline axis and builds the scale
// that maps observed values onto the unit interval.
package axis

import (
	"math"
	"time"

	"github.com/davetashner/kpimatrix/internal/table"
)

// Type is the inferred type of x-axis values.
type Type int

// Axis value types.
const (
	None Type = iota
	String
	Date
	Number
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Date:
		return "date"
	case Number:
		return "number"
	default:
		return "none"
	}
}

// MarshalText encodes the type by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// TypeOf infers the axis type from a column's declared value type.
func TypeOf(vt table.ValueType) Type {
	switch vt {
	case table.TypeText:
		return String
	case table.TypeDateTime:
		return Date
	case table.TypeInteger, table.TypeNumeric:
		return Number
	default:
		return None
	}
}

// Axis holds running bounds. Bounds only ever widen.
type Axis struct {
	Min float64
	Max float64

	typ    Type
	domain []string
	index  map[string]int
	scale  Scale
}

// New returns an axis with empty bounds.
func New(t Type) *Axis {
	return &Axis{
		Min: math.Inf(1),
		Max: math.Inf(-1),
		typ: t,
	}
}

// Type returns the value type of the axis.
func (a *Axis) Type() Type {
	return a.typ
}

// Empty reports whether no value has been observed.
func (a *Axis) Empty() bool {
	return a.Min > a.Max
}

// Widen extends the bounds to cover v. Non-finite values are ignored.
func (a *Axis) Widen(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	if v < a.Min {
		a.Min = v
	}
	if v > a.Max {
		a.Max = v
	}
	a.scale = nil
}

// Include widens the bounds to cover another axis.
func (a *Axis) Include(other *Axis) {
	if other == nil || other.Empty() {
		return
	}
	a.Widen(other.Min)
	a.Widen(other.Max)
	for _, name := range other.domain {
		a.ordinal(name)
	}
}

// Observe converts an x value to its position on the axis and widens the
// bounds with it. It returns NaN for values the axis cannot place.
func (a *Axis) Observe(v any) float64 {
	pos := a.Position(v)
	if a.typ == String || a.typ == None {
		if s, ok := v.(string); ok {
			pos = float64(a.ordinal(s))
		}
	}
	a.Widen(pos)
	return pos
}

// Position converts an x value to its numeric position without recording it.
// Dates map to Unix milliseconds; strings map to their ordinal index if known.
func (a *Axis) Position(v any) float64 {
	switch x := v.(type) {
	case time.Time:
		return float64(x.UnixMilli())
	case string:
		if i, ok := a.index[x]; ok {
			return float64(i)
		}
		return math.NaN()
	default:
		return table.Float(v)
	}
}

func (a *Axis) ordinal(name string) int {
	if a.index == nil {
		a.index = make(map[string]int)
	}
	if i, ok := a.index[name]; ok {
		return i
	}
	i := len(a.domain)
	a.domain = append(a.domain, name)
	a.index[name] = i
	return i
}

// Domain returns the ordinal names observed on a string axis.
func (a *Axis) Domain() []string {
	out := make([]string, len(a.domain))
	copy(out, a.domain)
	return out
}

// Scale returns the axis scale, building it from the current bounds when
// it has not been built yet.
func (a *Axis) Scale() Scale {
	if a.scale == nil {
		a.scale = build(a.typ, a.Min, a.Max, a.domain)
	}
	return a.scale
}

// Finalize rebuilds the scale from the observed bounds.
func (a *Axis) Finalize() {
	a.scale = build(a.typ, a.Min, a.Max, a.domain)
}

// FinalizeWith builds the scale over the bounds of shared instead of the
// axis' own, for series drawn on a common scale.
func (a *Axis) FinalizeWith(shared *Axis) {
	if shared == nil || shared.Empty() {
		a.Finalize()
		return
	}
	a.scale = build(a.typ, shared.Min, shared.Max, shared.domain)
}

// IsLatest reports whether candidate should replace current as the latest
// sample of a series. Dates and numbers compare by value; for the other
// types the later row wins.
func IsLatest(t Type, candidate, current any) bool {
	if current == nil {
		return true
	}
	switch t {
	case Date:
		c, ok1 := candidate.(time.Time)
		p, ok2 := current.(time.Time)
		if !ok1 || !ok2 {
			return true
		}
		return !c.Before(p)
	case Number:
		c, p := table.Float(candidate), table.Float(current)
		if math.IsNaN(c) || math.IsNaN(p) {
			return true
		}
		return c >= p
	default:
		return true
	}
}
