package series

import (
	"cmp"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/davetashner/kpimatrix/internal/settings"
	"github.com/davetashner/kpimatrix/internal/table"
)

// sortKey normalizes a sort-order value. Absent values sort as 0.
func sortKey(v any) (num float64, text string, isText bool) {
	switch x := v.(type) {
	case nil:
		return 0, "", false
	case string:
		if f := table.Float(x); !math.IsNaN(f) {
			return f, "", false
		}
		return 0, x, true
	case time.Time:
		return float64(x.UnixMilli()), "", false
	default:
		f := table.Float(x)
		if math.IsNaN(f) {
			return 0, "", false
		}
		return f, "", false
	}
}

// CompareSortOrder orders two sort-order values. Numbers and times compare
// numerically, strings lexically, and numbers sort before strings.
func CompareSortOrder(a, b any) int {
	an, at, aText := sortKey(a)
	bn, bt, bText := sortKey(b)
	switch {
	case aText && bText:
		return strings.Compare(at, bt)
	case aText:
		return 1
	case bText:
		return -1
	default:
		return cmp.Compare(an, bn)
	}
}

// Sort orders the set stably by sort order in the given direction.
func Sort(set *SeriesSet, order settings.SortOrder) {
	if set.Len() < 2 {
		return
	}
	items := set.Series()
	sort.SliceStable(items, func(i, j int) bool {
		c := CompareSortOrder(items[i].SortOrder, items[j].SortOrder)
		if order == settings.Descending {
			return c > 0
		}
		return c < 0
	})
	set.reorder(items)
}
