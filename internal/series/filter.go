package series

import "math"

// FilterPoints returns the points for which keep reports true.
func FilterPoints(points []Point, keep func(Point) bool) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// ValidPoints drops points with a non-finite value or position.
func ValidPoints(points []Point) []Point {
	return FilterPoints(points, func(p Point) bool {
		return finite(p.Value) && finite(p.Position)
	})
}

// PointsInRange keeps points whose position lies within [lo, hi].
func PointsInRange(points []Point, lo, hi float64) []Point {
	return FilterPoints(points, func(p Point) bool {
		return p.Position >= lo && p.Position <= hi
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
