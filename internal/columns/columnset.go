package columns

import (
	"github.com/davetashner/kpimatrix/internal/table"
)

// ColumnSet lists, per role, the display names of the columns bound to it in
// table order.
type ColumnSet map[Role][]string

// ConvertColumnSet scans column metadata and groups display names by role.
// Roles with a column cap keep only the first MaxColumns columns.
func ConvertColumnSet(cols []table.Column) ColumnSet {
	set := make(ColumnSet)
	for _, c := range cols {
		for _, d := range registry {
			if !c.HasRole(string(d.Role)) {
				continue
			}
			if d.MaxColumns > 0 && len(set[d.Role]) >= d.MaxColumns {
				continue
			}
			set[d.Role] = append(set[d.Role], c.DisplayName)
		}
	}
	return set
}

// Has reports whether at least one column is bound to role.
func (s ColumnSet) Has(role Role) bool {
	return len(s[role]) > 0
}

// At returns the idx-th column bound to role, falling back to the first
// bound column. It returns "" when the role is unbound.
func (s ColumnSet) At(role Role, idx int) string {
	names := s[role]
	if len(names) == 0 {
		return ""
	}
	if idx >= 0 && idx < len(names) {
		return names[idx]
	}
	return names[0]
}
