// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package output

import (
	"math"
	"sort"
	"strings"

	"github.com/davetashner/kpimatrix/internal/series"
)

var blocks = []rune("▁▂▃▄▅▆▇█")

// MaxSparklineWidth caps the number of samples drawn per sparkline. The
// most recent samples are kept.
const MaxSparklineWidth = 24

// Sparkline draws the actual point set of a leaf as a row of block
// characters. Heights come from the leaf's y scale so leaves sharing a
// y axis are comparable.
func Sparkline(s *series.Series) string {
	if s == nil || s.Y == nil || s.Points[series.ActualPoints].Len() == 0 {
		return ""
	}
	points := series.ValidPoints(s.Points[series.ActualPoints].Points)
	if len(points) == 0 {
		return ""
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Position < points[j].Position
	})
	if len(points) > MaxSparklineWidth {
		points = points[len(points)-MaxSparklineWidth:]
	}

	scale := s.Y.Scale()
	var b strings.Builder
	for _, p := range points {
		b.WriteRune(block(scale.Map(p.Value)))
	}
	return b.String()
}

// block picks the character for a normalized height. Heights outside
// [0, 1] are clamped.
func block(h float64) rune {
	if math.IsNaN(h) {
		return ' '
	}
	i := int(math.Round(h * float64(len(blocks)-1)))
	if i < 0 {
		i = 0
	}
	if i >= len(blocks) {
		i = len(blocks) - 1
	}
	return blocks[i]
}
