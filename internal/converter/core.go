// Copyright 2026 The Kpimatrix Authors
// SPDX-License-Identifier: MIT

package converter

import (
	"log/slog"
	"math"

	"github.com/davetashner/kpimatrix/internal/axis"
	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/mapping"
	"github.com/davetashner/kpimatrix/internal/series"
	"github.com/davetashner/kpimatrix/internal/settings"
	"github.com/davetashner/kpimatrix/internal/table"
	"github.com/davetashner/kpimatrix/internal/variance"
)

// variant is the per-row strategy that distinguishes the converters.
type variant interface {
	columnBased() bool
	// converterStep locates or creates the leaves of one row under parent
	// and applies the row's values to them.
	converterStep(c *conversion, rv rowValues, path []category, parent *series.SeriesSet)
}

// conversion is the state of a single Convert call.
type conversion struct {
	opts        Options
	settings    *settings.Settings
	cache       *settings.SeriesSettingsCache
	rep         *series.DataRepresentation
	columnSet   columns.ColumnSet
	mapping     mapping.ColumnMapping
	strategy    variance.Strategy
	selectionID SelectionIDFunc

	defaultName *string
	seriesDeep  int
	filled      int
	rowIndex    int
	axisValue   any
}

// run executes the shared conversion algorithm with v's per-row step.
func run(v variant, opts Options) *series.DataRepresentation {
	s := opts.Settings.Clone()
	c := &conversion{
		opts:        opts,
		settings:    s,
		cache:       opts.SettingsState,
		rep:         series.NewDataRepresentation(s),
		strategy:    s.VarianceStrategy(),
		selectionID: opts.SelectionID,
	}
	c.rep.IsDataColumnBasedModel = v.columnBased()
	if c.cache == nil {
		c.cache = settings.NewSeriesSettingsCache()
	}
	if c.selectionID == nil {
		c.selectionID = DefaultSelectionID
	}

	if !opts.DataView.Valid() {
		return c.rep
	}
	t := opts.DataView.Table

	c.columnSet = columns.ConvertColumnSet(t.Columns)
	c.mapping = opts.ColumnMapping
	if c.mapping == nil {
		c.mapping = mapping.Default(c.columnSet)
	}
	for _, col := range t.Columns {
		for _, role := range columns.Roles() {
			if col.HasRole(string(role)) {
				c.rep.Columns[role] = append(c.rep.Columns[role], col)
			}
		}
	}

	dateColumn, dateIndex := t.FirstColumn(string(columns.Date))
	if dateIndex >= 0 {
		c.rep.Type = axis.TypeOf(dateColumn.Type)
	}

	c.snapshotFormats(t)

	if !s.Table.HideUnmappedMetrics {
		name := s.Table.UnmappedCategoryName
		if name == "" {
			name = settings.Default().Table.UnmappedCategoryName
		}
		c.defaultName = &name
	}

	for i, row := range t.Rows {
		if row == nil {
			slog.Debug("skipping undefined row", "row", i)
			continue
		}
		c.rowIndex = i
		rv := extractRow(row, t.Columns)
		path, ok := rv.categoryPath(c.defaultName)
		if !ok {
			slog.Debug("skipping row with unmapped category", "row", i)
			continue
		}
		c.axisValue = c.readAxisValue(row, dateIndex)
		c.seriesDeep = max(c.seriesDeep, len(path)+1)

		parent := c.applyCategorySet(path)
		v.converterStep(c, rv, path, parent)
	}

	if c.seriesDeep > 1 {
		c.rehomeOrphans()
	}

	c.postProcess(c.rep.Series)
	c.stripe()

	c.rep.SeriesDeep = depthOf(c.rep.Series)
	s.HideDescriptors(c.rep.SeriesDeep)
	return c.rep
}

// snapshotFormats copies the bound columns' format strings into the global
// settings and hides the second comparison when it is not bound.
func (c *conversion) snapshotFormats(t *table.Table) {
	formats := []struct {
		role   columns.Role
		target *settings.ValueSettings
	}{
		{columns.ActualValue, &c.settings.CurrentValue},
		{columns.ComparisonValue, &c.settings.ComparisonValue},
		{columns.KPIIndicatorValue, &c.settings.KPIIndicatorValue},
		{columns.SecondComparisonValue, &c.settings.SecondComparisonValue},
		{columns.SecondKPIIndicatorValue, &c.settings.SecondKPIIndicatorValue},
	}
	for _, f := range formats {
		if col, idx := t.FirstColumn(string(f.role)); idx >= 0 && col.Format != "" {
			f.target.Format = col.Format
		}
	}

	if !c.columnSet.Has(columns.SecondComparisonValue) {
		c.settings.SecondComparisonValue.Show = false
		c.settings.SecondKPIIndicatorValue.Show = false
	}
}

// readAxisValue returns the row's x value, or nil when it is missing or
// cannot be read as the inferred axis type. Tables without a date column
// use the row index.
func (c *conversion) readAxisValue(row []any, dateIndex int) any {
	if dateIndex < 0 {
		return float64(c.rowIndex)
	}
	if dateIndex >= len(row) || table.IsNull(row[dateIndex]) {
		return nil
	}
	v := row[dateIndex]
	switch c.rep.Type {
	case axis.Date:
		if t, ok := table.Time(v); ok {
			return t
		}
		slog.Debug("skipping malformed date", "row", c.rowIndex, "value", v)
		return nil
	case axis.Number:
		if f := table.Float(v); !math.IsNaN(f) {
			return f
		}
		return nil
	case axis.String:
		if s, ok := table.Text(v); ok {
			return s
		}
		return nil
	default:
		return v
	}
}

// applyCategorySet walks the category path from the root, creating or
// reusing a node per level, and returns the set the row's leaves belong in.
func (c *conversion) applyCategorySet(path []category) *series.SeriesSet {
	set := c.rep.Series
	for level, cat := range path {
		node := set.Get(cat.Name)
		if node != nil && node.HasBeenFilled {
			node = c.promote(set, node, pathNames(path[:level]), level)
		}
		if node == nil {
			node = series.New(cat.Name, level)
			set.Put(node)
		}

		node.Level = level
		if cat.SortOrder != nil {
			node.SortOrder = cat.SortOrder
		}
		if node.Hyperlink == "" {
			node.Hyperlink = cat.Hyperlink
		}
		if node.Image == "" {
			node.Image = cat.Image
		}
		set = node.Children
	}
	return set
}

// promote replaces a filled leaf whose name a later row uses as a category
// with a new category of the same name, and re-inserts the leaf one level
// deeper beneath it. prefix is the path of set.
func (c *conversion) promote(set *series.SeriesSet, leaf *series.Series, prefix []string, level int) *series.Series {
	slog.Debug("promoting metric to category", "name", leaf.Name, "level", level)
	cat := series.New(leaf.Name, level)
	set.Put(cat)
	leaf.SetLevel(level + 1)
	leaf.SelectionID = c.selectionID(append(prefix, leaf.Name, leaf.Name))
	cat.Children.Put(leaf)
	return cat
}

// leafAt returns the node a row's metric is applied to: found, or created
// in parent at level. A category that took over the metric's name through
// promotion hands the row on to the promoted leaf beneath it; any other
// category is rejected.
func (c *conversion) leafAt(found *series.Series, parent *series.SeriesSet, name string, level int) *series.Series {
	if found == nil {
		found, _ = parent.GetOrCreate(name, func() *series.Series {
			return series.New(name, level)
		})
	}
	if !found.HasBeenFilled && found.Children.Len() > 0 {
		if promoted := found.Children.Get(name); promoted != nil && promoted.HasBeenFilled {
			return promoted
		}
		slog.Debug("metric name collides with a category", "name", name, "row", c.rowIndex)
		return nil
	}
	return found
}

// decorate copies the metric-level hyperlink, sort order and image of the
// row onto leaf. They sit at the position after the category columns.
func (c *conversion) decorate(leaf *series.Series, rv rowValues) {
	hyperlink, sortOrder, image := rv.decoration(rv.categoryCount())
	if sortOrder != nil {
		leaf.SortOrder = sortOrder
	}
	if leaf.Hyperlink == "" {
		leaf.Hyperlink = hyperlink
	}
	if leaf.Image == "" {
		leaf.Image = image
	}
}

// applyDataToCurrentSeries applies one sample to leaf. Samples without an
// axis value or with an invalid current value are skipped.
func (c *conversion) applyDataToCurrentSeries(leaf *series.Series, smp sample, path []string) {
	if smp.axisValue == nil {
		return
	}
	if !c.settings.IsValueValid(smp.current) {
		slog.Debug("skipping invalid current value", "series", leaf.Name, "row", c.rowIndex)
		return
	}
	if !leaf.HasBeenFilled {
		c.fill(leaf, smp, path)
	}

	pos := leaf.X.Observe(smp.axisValue)
	kpiValue := variance.Compute(smp.kpiSpecified, smp.kpiValue, smp.current, smp.comparison, c.strategy)
	secondKPIValue := variance.Compute(smp.secondKPISpecified, smp.secondKPIValue, smp.current, smp.secondComparison, c.strategy)

	if axis.IsLatest(c.rep.Type, smp.axisValue, leaf.AxisValue) {
		leaf.AxisValue = smp.axisValue
		leaf.CurrentValue = smp.current
		leaf.ComparisonValue = smp.comparison
		leaf.SecondComparisonValue = smp.secondComparison
		leaf.KPIIndicatorIndex = smp.kpiIndex
		leaf.KPIIndicatorValue = kpiValue
		leaf.SecondKPIIndicatorValue = secondKPIValue
	}
	leaf.AxisValues = append(leaf.AxisValues, smp.axisValue)

	sl := leaf.Settings.Sparkline
	actual := leaf.Points[series.ActualPoints]
	color := actual.Color
	if sl.UseKPIColors {
		if kpi := leaf.Settings.KPIIndicator.GetCurrentKPI(smp.kpiIndex); kpi.Matched() {
			color = kpi.Color
		}
	}
	actual.Add(series.Point{AxisValue: smp.axisValue, Position: pos, Value: smp.current}, smp.kpiIndex, color)
	c.widenY(leaf, smp.current)

	if finite(smp.comparison) {
		ps := leaf.Points[series.ComparisonPoints]
		if ps == nil {
			ps = series.NewPointSet(sl.ComparisonColor, sl.Thickness, sl.LineStyle)
			leaf.Points[series.ComparisonPoints] = ps
		}
		ps.Add(series.Point{AxisValue: smp.axisValue, Position: pos, Value: smp.comparison}, smp.kpiIndex, ps.Color)
		c.widenY(leaf, smp.comparison)
	}

	if finite(smp.secondComparison) {
		ps := leaf.Points[series.SecondComparisonPoints]
		if ps == nil {
			ps = series.NewPointSet(sl.SecondComparisonColor, sl.Thickness, sl.LineStyle)
			leaf.Points[series.SecondComparisonPoints] = ps
		}
		ps.Add(series.Point{AxisValue: smp.axisValue, Position: pos, Value: smp.secondComparison}, smp.kpiIndex, ps.Color)
		c.widenY(leaf, smp.secondComparison)
	}

	leaf.VarianceSet[series.FirstVariance] = append(leaf.VarianceSet[series.FirstVariance], kpiValue)
	leaf.VarianceSet[series.SecondVariance] = append(leaf.VarianceSet[series.SecondVariance], secondKPIValue)
}

// fill turns leaf into a metric on its first valid sample.
func (c *conversion) fill(leaf *series.Series, smp sample, path []string) {
	leaf.HasBeenFilled = true

	s := c.settings.Clone()
	for role, format := range smp.formats {
		switch role {
		case columns.ActualValue:
			s.CurrentValue.Format = format
		case columns.ComparisonValue:
			s.ComparisonValue.Format = format
		case columns.KPIIndicatorValue:
			s.KPIIndicatorValue.Format = format
		case columns.SecondComparisonValue:
			s.SecondComparisonValue.Format = format
		case columns.SecondKPIIndicatorValue:
			s.SecondKPIIndicatorValue.Format = format
		}
	}
	if o, ok := c.cache.Get(leaf.Name); ok {
		s.ApplyOverrides(o)
	}
	if c.opts.ViewMode == Edit {
		c.cache.Ensure(leaf.Name)
	}
	leaf.Settings = s

	color := s.Sparkline.ActualColor
	if color == "" && c.opts.Palette != nil {
		color = c.opts.Palette(c.filled)
	}
	c.filled++

	leaf.SelectionID = c.selectionID(path)
	leaf.X = axis.New(c.rep.Type)
	leaf.Y = axis.New(axis.Number)
	leaf.Points[series.ActualPoints] = series.NewPointSet(color, s.Sparkline.Thickness, s.Sparkline.LineStyle)
}

func (c *conversion) widenY(leaf *series.Series, v float64) {
	leaf.Y.Widen(v)
	c.rep.Y.Widen(v)
}

// rehomeOrphans moves metrics left at the root under the default category
// so every branch has a category. Without a default name they are dropped.
func (c *conversion) rehomeOrphans() {
	root := c.rep.Series
	var other *series.Series
	for _, s := range root.Series() {
		if !s.HasBeenFilled || s.Level != 0 {
			continue
		}
		root.Delete(s.Name)
		if c.defaultName == nil {
			slog.Debug("dropping unmapped metric", "name", s.Name)
			continue
		}
		if other == nil {
			other = root.Get(*c.defaultName)
			if other == nil {
				other = series.New(*c.defaultName, 0)
				root.Put(other)
			}
		}
		if other.Children.Has(s.Name) {
			slog.Debug("unmapped metric already present in default category", "name", s.Name)
			continue
		}
		s.SetLevel(1)
		s.SelectionID = c.selectionID([]string{*c.defaultName, s.Name})
		other.Children.Put(s)
	}
}

// postProcess finalizes leaves, aggregates and prunes categories bottom-up,
// and sorts every level.
func (c *conversion) postProcess(set *series.SeriesSet) {
	for _, s := range set.Series() {
		if s.HasBeenFilled {
			c.finalizeLeaf(s)
			continue
		}

		c.postProcess(s.Children)
		if s.Children.Len() == 0 {
			set.Delete(s.Name)
			continue
		}
		if c.settings.Subtotal.Show {
			c.subtotal(s)
		}
	}
	series.Sort(set, c.settings.Table.SortOrder)
}

func (c *conversion) finalizeLeaf(s *series.Series) {
	s.X.Finalize()
	if s.Settings.Sparkline.ShareYAxis {
		s.Y.FinalizeWith(c.rep.Y)
	} else {
		s.Y.Finalize()
	}

	if s.Hyperlink != "" {
		s.Settings.MetricName.HideCommonProperties = true
		s.Settings.MetricName.HasHyperlink = true
	}
	if s.Image != "" {
		s.Settings.MetricName.HideCommonProperties = true
		s.Settings.MetricName.HasImage = true
	}
}

// subtotal aggregates the direct children of a category.
func (c *conversion) subtotal(cat *series.Series) {
	children := cat.Children.Series()
	agg := func(pick func(*series.Series) float64) float64 {
		return aggregate(children, pick, c.settings.Subtotal.Type)
	}
	cat.CurrentValue = agg(func(s *series.Series) float64 { return s.CurrentValue })
	cat.ComparisonValue = agg(func(s *series.Series) float64 { return s.ComparisonValue })
	cat.SecondComparisonValue = agg(func(s *series.Series) float64 { return s.SecondComparisonValue })
}

// aggregate sums the finite values, or counts them in count mode. A sum
// over no finite value is NaN.
func aggregate(items []*series.Series, pick func(*series.Series) float64, typ settings.SubtotalType) float64 {
	var (
		total float64
		n     int
	)
	for _, s := range items {
		v := pick(s)
		if !finite(v) {
			continue
		}
		total += v
		n++
	}
	if typ == settings.SubtotalCount {
		return float64(n)
	}
	if n == 0 {
		return math.NaN()
	}
	return total
}

// stripe alternates row backgrounds over the leaves in display order. The
// counter runs across branches, so bands follow the flattened leaf list.
func (c *conversion) stripe() {
	for i, leaf := range c.rep.Leaves() {
		if i%2 == 0 {
			leaf.Background = c.settings.Table.OddRowBackground
		} else {
			leaf.Background = c.settings.Table.EvenRowBackground
		}
	}
}

// depthOf returns the deepest leaf level plus one.
func depthOf(set *series.SeriesSet) int {
	depth := 0
	series.Walk(set, func(s *series.Series) {
		if s.HasBeenFilled {
			depth = max(depth, s.Level+1)
		}
	})
	return depth
}

// pathNames returns the names of a category path.
func pathNames(path []category) []string {
	out := make([]string, len(path))
	for i, p := range path {
		out[i] = p.Name
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
