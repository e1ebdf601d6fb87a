package reports

import "strings"

// Slicing operations derive a new Report from a built one without
// rescanning the source items. Every derived report must reconcile with
// what a fresh Build over the equivalent item subset would produce; the
// tests hold them to that.

// TakeSlice extracts the sub-tree rooted at a top-level category name as
// if it had been the only data. The sub-root's own totals become the new
// grand totals, plus the orphaned amounts of rows under the prefix whose
// parent chain never reaches the sub-root.
func (r *Report) TakeSlice(top string) (*Report, error) {
	if !r.built {
		return nil, ErrNotBuilt
	}

	s := r.derived(top)
	prefix := top + ":"
	for id, row := range r.rows {
		if row.IsTotal {
			continue
		}
		if id == top || strings.HasPrefix(id, prefix) {
			s.copyRow(r, id)
		}
	}

	totals := copyCells(r.cells[top])
	for _, orphanCells := range s.orphans {
		for colID, v := range orphanCells {
			totals[colID] += v
		}
	}
	s.setTotalRow(totals)
	return s, nil
}

// TakeSliceExcept is the complement: every top-level category except the
// named ones, recombined under a fresh total.
func (r *Report) TakeSliceExcept(names []string) (*Report, error) {
	if !r.built {
		return nil, ErrNotBuilt
	}

	removed := make(map[string]bool, len(names))
	for _, n := range names {
		removed[n] = true
	}

	s := r.derived(r.Name)
	for id, row := range r.rows {
		if row.IsTotal {
			continue
		}
		topSegment := id
		if i := strings.Index(id, ":"); i >= 0 {
			topSegment = id[:i]
		}
		if !removed[topSegment] {
			s.copyRow(r, id)
		}
	}

	s.recomputeTotalRow()
	return s, nil
}

// PruneToLevel collapses rows deeper than level n into their level-n
// ancestors (which already carry the full subtree totals), renumbering so
// the deepest remaining rows sit at level 0. Leaf-only rows have no
// ancestors to collapse into; ones deeper than the new depth are folded
// into the row at their truncated path, where a shallower build would
// have materialized them.
func (r *Report) PruneToLevel(n int) (*Report, error) {
	if !r.built {
		return nil, ErrNotBuilt
	}
	if n < 0 || n >= r.NumLevels {
		return nil, ErrBadLevels
	}

	s := r.derived(r.Name)
	s.NumLevels = r.NumLevels - n
	for id, row := range r.rows {
		if row.IsTotal {
			continue
		}
		if row.LeafOnly {
			// Leaf rows sit at level 0 regardless of depth; keep the ones
			// the new depth can still hold.
			if strings.Count(id, ":") < s.NumLevels {
				s.copyRow(r, id)
			}
			continue
		}
		if row.Level >= n {
			s.copyRow(r, id)
			s.rows[id].Level -= n
		}
	}

	for id, row := range r.rows {
		if row.IsTotal {
			continue
		}
		if _, kept := s.rows[id]; kept {
			continue
		}
		if orphanCells, ok := r.orphans[id]; ok {
			s.foldOrphan(id, orphanCells)
		}
	}

	s.cells[TotalID] = copyCells(r.cells[TotalID])
	return s, nil
}

// derived creates an empty built report sharing this report's column
// configuration.
func (r *Report) derived(name string) *Report {
	s := &Report{
		Name:             name,
		Description:      r.Description,
		NumLevels:        r.NumLevels,
		SkipLevels:       r.SkipLevels,
		WithMonthColumns: r.WithMonthColumns,
		SortOrder:        r.SortOrder,
		built:            true,
		rows:             make(map[string]*RowLabel),
		cells:            make(map[string]map[string]float64),
		orphans:          make(map[string]map[string]float64),
		columns:          r.columns,
		customCols:       r.customCols,
	}
	s.rows[TotalID] = &RowLabel{UniqueID: TotalID, Name: TotalID, IsTotal: true}
	return s
}

// copyRow copies one row label, its cells, and its orphaned amounts from
// the source report.
func (s *Report) copyRow(from *Report, rowID string) {
	row := *from.rows[rowID]
	s.rows[rowID] = &row
	s.cells[rowID] = copyCells(from.cells[rowID])
	if orphanCells, ok := from.orphans[rowID]; ok {
		s.orphans[rowID] = copyCells(orphanCells)
	}
}

// foldOrphan merges a dropped row's orphaned amounts into the row at its
// truncated path, mirroring where a shallower build routes them.
func (s *Report) foldOrphan(id string, orphanCells map[string]float64) {
	segments := strings.Split(id, ":")
	if len(segments) > s.NumLevels {
		segments = segments[:s.NumLevels]
	}
	truncID := strings.Join(segments, ":")

	if _, ok := s.rows[truncID]; !ok {
		s.rows[truncID] = &RowLabel{
			UniqueID: truncID,
			Name:     segments[len(segments)-1],
			LeafOnly: true,
		}
	}
	cells, ok := s.cells[truncID]
	if !ok {
		cells = make(map[string]float64)
		s.cells[truncID] = cells
	}
	for colID, v := range orphanCells {
		cells[colID] += v
	}

	// Still unrooted at the new depth.
	if strings.Contains(truncID, ":") {
		dst, ok := s.orphans[truncID]
		if !ok {
			dst = make(map[string]float64)
			s.orphans[truncID] = dst
		}
		for colID, v := range orphanCells {
			dst[colID] += v
		}
	}

	s.refreshCustomCells(truncID)
}

// recomputeTotalRow rebuilds the total row from the remaining top-level
// rows and orphaned amounts.
func (s *Report) recomputeTotalRow() {
	totals := make(map[string]float64)
	for _, row := range s.rows {
		if row.IsTotal || row.Parent != "" || strings.Contains(row.UniqueID, ":") {
			continue
		}
		for colID, v := range s.cells[row.UniqueID] {
			totals[colID] += v
		}
	}
	for _, orphanCells := range s.orphans {
		for colID, v := range orphanCells {
			totals[colID] += v
		}
	}

	s.setTotalRow(totals)
}

// setTotalRow installs the total row, re-evaluating custom columns over a
// snapshot of the data values so no custom function observes another's
// output, same as Build.
func (s *Report) setTotalRow(totals map[string]float64) {
	for _, cc := range s.customCols {
		delete(totals, cc.UniqueID)
	}
	data := copyCells(totals)
	for _, cc := range s.customCols {
		totals[cc.UniqueID] = cc.Custom(data)
	}

	s.cells[TotalID] = totals
}

// refreshCustomCells re-evaluates one row's custom columns after its data
// cells changed.
func (s *Report) refreshCustomCells(rowID string) {
	if len(s.customCols) == 0 {
		return
	}
	cells := s.cells[rowID]
	for _, cc := range s.customCols {
		delete(cells, cc.UniqueID)
	}
	data := copyCells(cells)
	for _, cc := range s.customCols {
		cells[cc.UniqueID] = cc.Custom(data)
	}
}

func copyCells(cells map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(cells))
	for k, v := range cells {
		out[k] = v
	}
	return out
}
