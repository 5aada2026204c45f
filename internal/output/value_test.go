package output

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/davetashner/kpimatrix/internal/settings"
)

func TestFormatValue(t *testing.T) {
	auto := settings.ValueSettings{Precision: -1}
	variance := settings.ValueSettings{Precision: -1, Format: "+0.00%;-0.00%;0.00%"}

	tests := []struct {
		name string
		v    float64
		vs   settings.ValueSettings
		want string
	}{
		{"nan", math.NaN(), auto, "-"},
		{"inf", math.Inf(1), auto, "-"},
		{"integer", 12, auto, "12"},
		{"fraction", 12.346, auto, "12.35"},
		{"thousands", 1500, auto, "1.50K"},
		{"millions", -2_000_000, auto, "-2.00M"},
		{"no_units", 1500, settings.ValueSettings{Precision: -1, DisplayUnits: 1}, "1500"},
		{"fixed_units", 1500, settings.ValueSettings{Precision: 1, DisplayUnits: 1000}, "1.5K"},
		{"fixed_precision", 3, settings.ValueSettings{Precision: 2, DisplayUnits: 1}, "3.00"},
		{"format_precision", 3.14159, settings.ValueSettings{Precision: -1, DisplayUnits: 1, Format: "0.000"}, "3.142"},
		{"currency", 42, settings.ValueSettings{Precision: -1, DisplayUnits: 1, Format: "$0"}, "$42"},
		{"percent_positive", 0.2, variance, "+20.00%"},
		{"percent_negative", -0.05, variance, "-5.00%"},
		{"percent_zero", 0, variance, "0.00%"},
		{"percent_plain", 0.5, settings.ValueSettings{Precision: 0, Format: "0%"}, "50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.v, tt.vs))
		})
	}
}

func TestFormatPrecision(t *testing.T) {
	assert.Equal(t, 2, formatPrecision("", 2))
	assert.Equal(t, 0, formatPrecision("0", 2))
	assert.Equal(t, 3, formatPrecision("#,##0.000", 2))
	assert.Equal(t, 1, formatPrecision("+0.0%;-0.0%", 2))
}
