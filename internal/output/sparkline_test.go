package output

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davetashner/kpimatrix/internal/axis"
	"github.com/davetashner/kpimatrix/internal/series"
)

func leafWith(values ...float64) *series.Series {
	s := series.New("m", 0)
	s.HasBeenFilled = true
	s.Y = axis.New(axis.Number)
	ps := series.NewPointSet("#000", 1, "solid")
	for i, v := range values {
		ps.Add(series.Point{AxisValue: float64(i), Position: float64(i), Value: v}, math.NaN(), ps.Color)
		s.Y.Widen(v)
	}
	s.Points[series.ActualPoints] = ps
	return s
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁▅█", Sparkline(leafWith(0, 4, 8)))
	assert.Equal(t, "▅", Sparkline(leafWith(3)))
	assert.Equal(t, "▁█", Sparkline(leafWith(1, math.NaN(), 2)))
}

func TestSparkline_OrdersByPosition(t *testing.T) {
	s := leafWith(0, 8)
	s.Points[series.ActualPoints].Points[0].Position = 5
	assert.Equal(t, "█▁", Sparkline(s))
}

func TestSparkline_KeepsMostRecent(t *testing.T) {
	values := make([]float64, MaxSparklineWidth+6)
	for i := range values {
		values[i] = float64(i)
	}
	got := []rune(Sparkline(leafWith(values...)))
	assert.Len(t, got, MaxSparklineWidth)
	assert.Equal(t, '█', got[len(got)-1])
}

func TestSparkline_Empty(t *testing.T) {
	assert.Empty(t, Sparkline(nil))
	assert.Empty(t, Sparkline(series.New("category", 0)))
	assert.Empty(t, Sparkline(leafWith(math.NaN())))
}

func TestBlock_Clamps(t *testing.T) {
	assert.Equal(t, '▁', block(-1))
	assert.Equal(t, '█', block(2))
	assert.Equal(t, ' ', block(math.NaN()))
}
