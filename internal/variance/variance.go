// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

// Package variance computes the KPI indicator value of a sample from its
// current and comparison values.
package variance

import (
	"fmt"
	"math"
	"strings"
)

// Strategy derives a variance from a current and a comparison value.
type Strategy interface {
	Name() string
	Variance(current, comparison float64) float64
}

// PercentageChange is (current - comparison) / |comparison|.
// Two zeros yield 0; a zero comparison otherwise yields NaN.
type PercentageChange struct{}

// Name returns "percentage".
func (PercentageChange) Name() string { return "percentage" }

// Variance returns the relative change.
func (PercentageChange) Variance(current, comparison float64) float64 {
	if !finite(current) || !finite(comparison) {
		return math.NaN()
	}
	if comparison == 0 {
		if current == 0 {
			return 0
		}
		return math.NaN()
	}
	return (current - comparison) / math.Abs(comparison)
}

// AbsoluteChange is current - comparison.
type AbsoluteChange struct{}

// Name returns "absolute".
func (AbsoluteChange) Name() string { return "absolute" }

// Variance returns the difference.
func (AbsoluteChange) Variance(current, comparison float64) float64 {
	if !finite(current) || !finite(comparison) {
		return math.NaN()
	}
	return current - comparison
}

// Ratio is current / comparison, NaN for a zero comparison.
type Ratio struct{}

// Name returns "ratio".
func (Ratio) Name() string { return "ratio" }

// Variance returns the quotient.
func (Ratio) Variance(current, comparison float64) float64 {
	if !finite(current) || !finite(comparison) || comparison == 0 {
		return math.NaN()
	}
	return current / comparison
}

// Default is the strategy used when none is configured.
var Default Strategy = PercentageChange{}

// ByName resolves a strategy by name. An empty name resolves to Default.
func ByName(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "percentage", "percent":
		return PercentageChange{}, nil
	case "absolute", "difference":
		return AbsoluteChange{}, nil
	case "ratio":
		return Ratio{}, nil
	default:
		return nil, fmt.Errorf("unknown variance mode %q (must be percentage, absolute, or ratio)", name)
	}
}

// Compute returns the KPI indicator value of a sample. An explicit finite
// KPI value wins. Without one, the variance of current against a valid
// comparison is computed with s. Everything else is NaN.
func Compute(kpiSpecified bool, kpi, current, comparison float64, s Strategy) float64 {
	if kpiSpecified {
		if finite(kpi) {
			return kpi
		}
		return math.NaN()
	}
	if !finite(comparison) {
		return math.NaN()
	}
	if s == nil {
		s = Default
	}
	return s.Variance(current, comparison)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
