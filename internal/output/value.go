package output

import (
	"math"
	"strconv"
	"strings"

	"github.com/davetashner/kpimatrix/internal/settings"
)

const missing = "-"

var unitSuffixes = []struct {
	scale  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatValue renders v according to the value settings of its cell.
// Formats containing "%" render percentages. A zero DisplayUnits picks
// K/M/B/T units automatically and one disables scaling.
func FormatValue(v float64, vs settings.ValueSettings) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missing
	}

	precision := vs.Precision
	if strings.Contains(vs.Format, "%") {
		if precision < 0 {
			precision = formatPrecision(vs.Format, 2)
		}
		s := strconv.FormatFloat(v*100, 'f', precision, 64) + "%"
		if strings.HasPrefix(vs.Format, "+") && v > 0 {
			s = "+" + s
		}
		return s
	}

	suffix := ""
	switch {
	case vs.DisplayUnits > 1:
		v /= vs.DisplayUnits
		suffix = unitSuffix(vs.DisplayUnits)
	case vs.DisplayUnits == 0:
		for _, u := range unitSuffixes {
			if math.Abs(v) >= u.scale {
				v /= u.scale
				suffix = u.suffix
				break
			}
		}
	}

	if precision < 0 {
		precision = formatPrecision(vs.Format, 2)
		if suffix == "" && v == math.Trunc(v) {
			precision = 0
		}
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.HasPrefix(vs.Format, "$") {
		s = "$" + s
	}
	return s + suffix
}

func unitSuffix(units float64) string {
	for _, u := range unitSuffixes {
		if units == u.scale {
			return u.suffix
		}
	}
	return ""
}

// formatPrecision counts the decimal placeholders after the first '.' of a
// format string such as "0.00" or "+0.0%".
func formatPrecision(format string, fallback int) int {
	if format == "" {
		return fallback
	}
	section, _, _ := strings.Cut(format, ";")
	_, decimals, ok := strings.Cut(section, ".")
	if !ok {
		return 0
	}
	n := 0
	for _, r := range decimals {
		if r != '0' && r != '#' {
			break
		}
		n++
	}
	return n
}
