package reports

import (
	"sort"
	"strings"
)

// RowLabelsOrdered returns the rows in display order: depth-first from the
// top level, siblings ordered per SortOrder at every level, total row
// always last. The order is computed lazily on first call and cached.
func (r *Report) RowLabelsOrdered() []*RowLabel {
	if r.ordered != nil {
		return r.ordered
	}

	children := make(map[string][]*RowLabel)
	for _, row := range r.rows {
		if row.IsTotal {
			continue
		}
		children[row.Parent] = append(children[row.Parent], row)
	}

	for _, siblings := range children {
		r.sortSiblings(siblings)
	}

	ordered := make([]*RowLabel, 0, len(r.rows))
	var walk func(parentID string)
	walk = func(parentID string) {
		for _, row := range children[parentID] {
			ordered = append(ordered, row)
			walk(row.UniqueID)
		}
	}
	walk("")

	if total, ok := r.rows[TotalID]; ok {
		ordered = append(ordered, total)
	}

	r.ordered = ordered
	return ordered
}

// sortSiblings orders one sibling group in place. Ties break on UniqueID
// so the order is deterministic.
func (r *Report) sortSiblings(siblings []*RowLabel) {
	less := func(a, b *RowLabel) bool {
		switch r.SortOrder {
		case SortByTotalAscending:
			at, bt := r.RowTotal(a.UniqueID), r.RowTotal(b.UniqueID)
			if at != bt {
				return at < bt
			}
		case SortByNameAscending:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an < bn
			}
		case SortByNameDescending:
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if an != bn {
				return an > bn
			}
		default: // SortByTotalDescending
			at, bt := r.RowTotal(a.UniqueID), r.RowTotal(b.UniqueID)
			if at != bt {
				return at > bt
			}
		}
		return a.UniqueID < b.UniqueID
	}
	sort.Slice(siblings, func(i, j int) bool { return less(siblings[i], siblings[j]) })
}
