package converter

import (
	"math"

	"github.com/davetashner/kpimatrix/internal/columns"
	"github.com/davetashner/kpimatrix/internal/table"
)

// cell is the value of one column in one row.
type cell struct {
	Column string
	Value  any
	Format string
}

// rowValues holds a row's cells grouped by role in column order, and by
// display name.
type rowValues struct {
	byRole map[columns.Role][]cell
	byName map[string]cell
}

func extractRow(row []any, cols []table.Column) rowValues {
	rv := rowValues{
		byRole: make(map[columns.Role][]cell),
		byName: make(map[string]cell, len(cols)),
	}
	for i, col := range cols {
		var v any
		if i < len(row) {
			v = row[i]
		}
		c := cell{Column: col.DisplayName, Value: v, Format: col.Format}
		rv.byName[col.DisplayName] = c
		for _, role := range columns.Roles() {
			if col.HasRole(string(role)) {
				rv.byRole[role] = append(rv.byRole[role], c)
			}
		}
	}
	return rv
}

// first returns the first cell bound to role.
func (rv rowValues) first(role columns.Role) (cell, bool) {
	return rv.at(role, 0)
}

// at returns the idx-th cell bound to role.
func (rv rowValues) at(role columns.Role, idx int) (cell, bool) {
	cells := rv.byRole[role]
	if idx < 0 || idx >= len(cells) {
		return cell{}, false
	}
	return cells[idx], true
}

// named returns the cell of the column named name.
func (rv rowValues) named(name string) (cell, bool) {
	c, ok := rv.byName[name]
	return c, ok
}

// text reads the idx-th cell of role as text.
func (rv rowValues) text(role columns.Role, idx int) string {
	c, ok := rv.at(role, idx)
	if !ok {
		return ""
	}
	s, _ := table.Text(c.Value)
	return s
}

// category is one level of a row's category path.
type category struct {
	Name      string
	Hyperlink string
	SortOrder any
	Image     string
}

// decoration returns the hyperlink, sort order and image aligned with
// position idx.
func (rv rowValues) decoration(idx int) (hyperlink string, sortOrder any, image string) {
	hyperlink = rv.text(columns.Hyperlink, idx)
	image = rv.text(columns.Image, idx)
	if c, ok := rv.at(columns.SortOrder, idx); ok && !table.IsNull(c.Value) {
		sortOrder = c.Value
	}
	return hyperlink, sortOrder, image
}

// categoryPath builds the row's category path, outermost level first.
// Category columns are declared innermost first, so the parsed list is
// reversed. Null levels take defaultName; a row whose levels are all null
// gets an empty path and stays at the root. With a nil defaultName a null
// level excludes the row from grouping and ok is false.
func (rv rowValues) categoryPath(defaultName *string) (path []category, ok bool) {
	cells := rv.byRole[columns.Category]
	if len(cells) > columns.MaxCategories {
		cells = cells[:columns.MaxCategories]
	}

	path = make([]category, 0, len(cells))
	nulls := 0
	for i, c := range cells {
		name, ok := table.Text(c.Value)
		if !ok {
			if defaultName == nil {
				return nil, false
			}
			nulls++
			path = append(path, category{Name: *defaultName})
			continue
		}
		hyperlink, sortOrder, image := rv.decoration(i)
		path = append(path, category{
			Name:      name,
			Hyperlink: hyperlink,
			SortOrder: sortOrder,
			Image:     image,
		})
	}
	if nulls == len(path) {
		return path[:0], true
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// categoryCount returns how many category columns the row declares.
func (rv rowValues) categoryCount() int {
	return min(len(rv.byRole[columns.Category]), columns.MaxCategories)
}

// sample is the set of values one row applies to one metric.
type sample struct {
	axisValue any

	current          float64
	comparison       float64
	secondComparison float64
	kpiIndex         float64

	kpiValue           float64
	kpiSpecified       bool
	secondKPIValue     float64
	secondKPISpecified bool

	formats map[columns.Role]string
}

func newSample(axisValue any) sample {
	return sample{
		axisValue:        axisValue,
		current:          math.NaN(),
		comparison:       math.NaN(),
		secondComparison: math.NaN(),
		kpiIndex:         math.NaN(),
		kpiValue:         math.NaN(),
		secondKPIValue:   math.NaN(),
		formats:          make(map[columns.Role]string),
	}
}

// set applies the cell bound to role.
func (s *sample) set(role columns.Role, c cell) {
	v := table.Float(c.Value)
	switch role {
	case columns.ActualValue:
		s.current = v
	case columns.ComparisonValue:
		s.comparison = v
	case columns.SecondComparisonValue:
		s.secondComparison = v
	case columns.KPIIndicatorIndex:
		s.kpiIndex = v
	case columns.KPIIndicatorValue:
		s.kpiValue = v
		s.kpiSpecified = true
	case columns.SecondKPIIndicatorValue:
		s.secondKPIValue = v
		s.secondKPISpecified = true
	default:
		return
	}
	if c.Format != "" {
		s.formats[role] = c.Format
	}
}
