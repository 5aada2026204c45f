// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package axis

import (
	"math"
	"time"
)

// Scale maps axis positions onto [0, 1].
type Scale interface {
	// Map returns the normalized position of v. Values outside the domain
	// map outside [0, 1]; NaN maps to NaN.
	Map(v float64) float64
	// Domain returns the scale's input bounds.
	Domain() (float64, float64)
	// Type returns the kind of values the scale was built for.
	Type() Type
}

func build(t Type, lo, hi float64, domain []string) Scale {
	switch t {
	case Date:
		return TimeScale{linear: newLinear(lo, hi)}
	case String:
		return OrdinalScale{names: domain}
	default:
		return LinearScale{linear: newLinear(lo, hi), typ: t}
	}
}

type linear struct {
	lo, hi float64
}

func newLinear(lo, hi float64) linear {
	if lo > hi {
		// Nothing observed.
		return linear{lo: 0, hi: 0}
	}
	return linear{lo: lo, hi: hi}
}

func (l linear) Map(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if l.hi == l.lo {
		return 0.5
	}
	return (v - l.lo) / (l.hi - l.lo)
}

func (l linear) Domain() (float64, float64) {
	return l.lo, l.hi
}

// LinearScale is a continuous numeric scale.
type LinearScale struct {
	linear
	typ Type
}

// Type returns the scale's value type.
func (s LinearScale) Type() Type {
	if s.typ == None {
		return Number
	}
	return s.typ
}

// TimeScale is a continuous scale over Unix milliseconds.
type TimeScale struct {
	linear
}

// Type returns Date.
func (TimeScale) Type() Type { return Date }

// MapTime returns the normalized position of t.
func (s TimeScale) MapTime(t time.Time) float64 {
	return s.Map(float64(t.UnixMilli()))
}

// OrdinalScale spreads named positions evenly over [0, 1].
type OrdinalScale struct {
	names []string
}

// Type returns String.
func (OrdinalScale) Type() Type { return String }

// Map maps an ordinal index.
func (s OrdinalScale) Map(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if len(s.names) <= 1 {
		return 0.5
	}
	return v / float64(len(s.names)-1)
}

// Domain returns the index bounds.
func (s OrdinalScale) Domain() (float64, float64) {
	if len(s.names) == 0 {
		return 0, 0
	}
	return 0, float64(len(s.names) - 1)
}

// MapName returns the normalized position of name, or NaN if unknown.
func (s OrdinalScale) MapName(name string) float64 {
	for i, n := range s.names {
		if n == name {
			return s.Map(float64(i))
		}
	}
	return math.NaN()
}
