package settings

import "math"

// KPISlot binds a KPI indicator index to its color and shape.
type KPISlot struct {
	Index float64 `yaml:"index" toml:"index"`
	Color string  `yaml:"color" toml:"color"`
	Shape string  `yaml:"shape" toml:"shape"`
}

// KPIIndicatorSettings configure the KPI status indicator.
type KPIIndicatorSettings struct {
	Show     bool      `yaml:"show" toml:"show"`
	Position string    `yaml:"position" toml:"position"`
	Slots    []KPISlot `yaml:"slots" toml:"slots"`
}

// KPIIndicator is the resolved indicator for one index. The zero match is
// {NaN, "", ""}.
type KPIIndicator struct {
	Index float64
	Color string
	Shape string
}

// Matched reports whether the indicator resolved to a configured slot.
func (k KPIIndicator) Matched() bool {
	return !math.IsNaN(k.Index)
}

func defaultKPIIndicator() KPIIndicatorSettings {
	return KPIIndicatorSettings{
		Show:     true,
		Position: "left",
		Slots: []KPISlot{
			{Index: 1, Color: "#01b8aa", Shape: "circle-full"},
			{Index: 2, Color: "#f2c80f", Shape: "triangle"},
			{Index: 3, Color: "#fd625e", Shape: "rhombus"},
			{Index: 4, Color: "#5f6b6d", Shape: "square"},
			{Index: 5, Color: "#8ad4eb", Shape: "flag"},
		},
	}
}

// GetCurrentKPI returns the slot configured for index, or the sentinel
// indicator when no slot matches.
func (k KPIIndicatorSettings) GetCurrentKPI(index float64) KPIIndicator {
	if math.IsNaN(index) {
		return KPIIndicator{Index: math.NaN()}
	}
	for _, slot := range k.Slots {
		if slot.Index == index {
			return KPIIndicator{
				Index: slot.Index,
				Color: slot.Color,
				Shape: slot.Shape,
			}
		}
	}
	return KPIIndicator{Index: math.NaN()}
}
