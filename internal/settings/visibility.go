package settings

import (
	"fmt"

	"github.com/davetashner/kpimatrix/internal/columns"
)

// property is a settings field together with the rule deciding whether it is
// offered for editing in the current state.
type property struct {
	name    string
	visible func(*Settings) bool
}

func always(*Settings) bool { return true }

func commonText(s *Settings) bool { return !s.MetricName.HideCommonProperties }

func shown(pick func(*Settings) ValueSettings) func(*Settings) bool {
	return func(s *Settings) bool { return pick(s).Show }
}

func valueProperties(pick func(*Settings) ValueSettings) []property {
	on := shown(pick)
	return []property{
		{"show", always},
		{"label", on},
		{"format", on},
		{"precision", on},
		{"displayUnits", on},
		{"fontColor", on},
		{"order", on},
	}
}

var groups = map[string][]property{
	"table": {
		{"sortOrder", always},
		{"hideUnmappedMetrics", always},
		{"unmappedCategoryName", func(s *Settings) bool { return !s.Table.HideUnmappedMetrics }},
		{"treatZeroAsNull", always},
		{"oddRowBackground", always},
		{"evenRowBackground", always},
	},
	"subtotal": {
		{"show", always},
		{"type", func(s *Settings) bool { return s.Subtotal.Show }},
		{"label", func(s *Settings) bool { return s.Subtotal.Show }},
	},
	"metricName": {
		{"show", always},
		{"label", always},
		{"fontColor", commonText},
		{"fontSize", commonText},
		{"bold", commonText},
	},
	"currentValue":    valueProperties(func(s *Settings) ValueSettings { return s.CurrentValue }),
	"comparisonValue": valueProperties(func(s *Settings) ValueSettings { return s.ComparisonValue }),
	"kpiIndicatorValue": valueProperties(func(s *Settings) ValueSettings {
		return s.KPIIndicatorValue
	}),
	"secondComparisonValue": valueProperties(func(s *Settings) ValueSettings {
		return s.SecondComparisonValue
	}),
	"secondKPIIndicatorValue": valueProperties(func(s *Settings) ValueSettings {
		return s.SecondKPIIndicatorValue
	}),
	"kpiIndicator": {
		{"show", always},
		{"position", func(s *Settings) bool { return s.KPIIndicator.Show }},
		{"slots", func(s *Settings) bool { return s.KPIIndicator.Show }},
	},
	"sparkline": {
		{"show", always},
		{"shareYAxis", func(s *Settings) bool { return s.Sparkline.Show }},
		{"useKPIColors", func(s *Settings) bool { return s.Sparkline.Show }},
		{"actualColor", func(s *Settings) bool { return s.Sparkline.Show && !s.Sparkline.UseKPIColors }},
		{"comparisonColor", func(s *Settings) bool { return s.Sparkline.Show }},
		{"secondComparisonColor", func(s *Settings) bool {
			return s.Sparkline.Show && s.SecondComparisonValue.Show
		}},
		{"thickness", func(s *Settings) bool { return s.Sparkline.Show }},
		{"lineStyle", func(s *Settings) bool { return s.Sparkline.Show }},
	},
	"date": {
		{"format", always},
	},
	"variance": {
		{"mode", always},
	},
}

func init() {
	for i := range columns.MaxCategories {
		level := i
		groups[fmt.Sprintf("category%d", i+1)] = []property{
			{"show", func(s *Settings) bool { return !s.Categories.Levels[level].Hidden }},
			{"width", func(s *Settings) bool {
				l := s.Categories.Levels[level]
				return !l.Hidden && l.Show
			}},
		}
	}
}

// VisibleProperties returns the names of the properties of group that are
// offered for editing in the current state of s, in declaration order.
// Unknown groups have no visible properties.
func (s *Settings) VisibleProperties(group string) []string {
	props, ok := groups[group]
	if !ok {
		return nil
	}
	var out []string
	for _, p := range props {
		if p.visible(s) {
			out = append(out, p.name)
		}
	}
	return out
}
