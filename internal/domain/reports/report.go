// Package reports builds hierarchical spending report grids.
//
// A Report aggregates one or more named series of category-bearing items
// into a {row × column → amount} grid. Rows are colon-delimited category
// paths materialized to a configurable depth; columns are calendar months,
// series, a synthetic total, and optional computed columns. Built reports
// can be sliced and pruned into derived reports without rescanning the
// source items.
//
// Typical usage:
//
//	r := &reports.Report{
//		Source:           []reports.NamedSeries{{Name: "Actual", Items: items}},
//		NumLevels:        2,
//		WithMonthColumns: true,
//	}
//	if err := r.Build(); err != nil { ... }
//	table := r.ToTable()
package reports

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Build misconfiguration errors. These indicate caller bugs and are
// returned immediately rather than tolerated.
var (
	ErrNoSource      = errors.New("report source is not set")
	ErrBadLevels     = errors.New("report NumLevels must be at least 1")
	ErrNilCustomFunc = errors.New("custom column has no function assigned")
	ErrNotBuilt      = errors.New("report has not been built")
)

// Report is a two-dimensional aggregation of financial records. Configure
// the exported fields, then call Build exactly once; after that the grid
// is immutable except through the slicing operations, which derive new
// Reports.
type Report struct {
	Name        string
	Description string

	// Source is the set of series to aggregate. Required.
	Source []NamedSeries

	// NumLevels is the maximum depth of rows to materialize. Must be >= 1.
	NumLevels int

	// SkipLevels drops this many leading path segments before building rows.
	SkipLevels int

	// WithMonthColumns generates one column per calendar month present in
	// the data. With more than one series the month detail collapses into
	// one total column per series instead.
	WithMonthColumns bool

	SortOrder SortOrder

	built      bool
	rows       map[string]*RowLabel
	columns    []*ColumnLabel
	customCols []*ColumnLabel
	cells      map[string]map[string]float64
	collectors []*collector
	ordered    []*RowLabel

	// orphans holds amounts whose row chain never reaches a top-level row:
	// leaf-only rows and collector rows deeper than one level have no
	// parent links, so top-level cells alone do not account for them. The
	// slicing operations fold these back into their rebuilt total rows.
	orphans map[string]map[string]float64
}

// AddCustomColumn registers a computed column evaluated after the data
// columns are populated. Must be called before Build. A column without a
// function is rejected here, not at build time.
func (r *Report) AddCustomColumn(col ColumnLabel) error {
	if col.Custom == nil {
		return ErrNilCustomFunc
	}
	c := col
	r.customCols = append(r.customCols, &c)
	return nil
}

// Build populates the grid. Fails fast on misconfiguration.
func (r *Report) Build() error {
	if len(r.Source) == 0 {
		return ErrNoSource
	}
	if r.NumLevels < 1 {
		return fmt.Errorf("%w (got %d)", ErrBadLevels, r.NumLevels)
	}

	r.rows = make(map[string]*RowLabel)
	r.cells = make(map[string]map[string]float64)
	r.orphans = make(map[string]map[string]float64)
	r.collectors = nil
	r.ordered = nil

	r.rows[TotalID] = &RowLabel{UniqueID: TotalID, Name: TotalID, IsTotal: true}

	r.registerCollectors()

	monthsSeen := make(map[string]bool)
	for _, series := range r.Source {
		for _, item := range series.Items {
			colID := r.dataColumnID(series.Name, item.Timestamp)
			if colID != "" && !r.seriesColumns() {
				monthsSeen[colID] = true
			}
			r.route(series, item, colID)
		}
	}

	r.buildColumns(monthsSeen)
	r.evaluateCustomColumns()

	r.built = true
	return nil
}

// seriesColumns reports whether data columns are per-series rather than
// per-month.
func (r *Report) seriesColumns() bool {
	return len(r.Source) > 1
}

// dataColumnID resolves the data column an item lands in, or "" when the
// report only carries the total column.
func (r *Report) dataColumnID(seriesName string, ts time.Time) string {
	if r.seriesColumns() {
		return seriesName
	}
	if r.WithMonthColumns {
		return fmt.Sprintf("%02d", int(ts.Month()))
	}
	return ""
}

// registerCollectors scans every series for collector monikers, creating
// their rows up front so regular items can be claimed during routing.
func (r *Report) registerCollectors() {
	seen := make(map[string]bool)
	for _, series := range r.Source {
		for _, item := range series.Items {
			path, c := parseCollector(item.Category)
			if c == nil {
				continue
			}
			segments := r.skip(splitCategory(path))
			if len(segments) == 0 {
				continue
			}
			fullID := strings.Join(segments, ":")
			if seen[fullID] {
				continue
			}
			seen[fullID] = true
			r.ensureRowPath(segments, series.LeafRowsOnly)
			// The claim prefix keeps the collector's full depth, but claimed
			// amounts must land in a materialized row, so the destination is
			// capped at NumLevels just like ensureRowPath caps its rows.
			rowSegments := segments
			if len(rowSegments) > r.NumLevels {
				rowSegments = rowSegments[:r.NumLevels]
			}
			r.collectors = append(r.collectors, &collector{
				rowID:    strings.Join(rowSegments, ":"),
				prefix:   segments[:len(segments)-1],
				excluded: c.excluded,
			})
		}
	}
}

// route adds one item's amount to every row it falls under, plus the
// grand-total row.
func (r *Report) route(series NamedSeries, item Item, colID string) {
	path, coll := parseCollector(item.Category)
	segments := r.skip(splitCategory(path))

	var rowIDs []string
	switch {
	case coll != nil:
		// A collector-defining item (e.g. the budget line itself) belongs
		// to its own row.
		if len(segments) == 0 {
			rowIDs = r.ensureRowPath(nil, series.LeafRowsOnly)
		} else {
			rowIDs = r.ensureRowPath(segments, series.LeafRowsOnly)
		}
	default:
		if claimed := r.claimingCollector(segments); claimed != nil {
			rowIDs = r.rowAndAncestors(claimed.rowID)
		} else {
			rowIDs = r.ensureRowPath(segments, series.LeafRowsOnly)
		}
	}

	for _, rowID := range rowIDs {
		r.addCell(rowID, colID, item.Amount)
	}
	r.addCell(TotalID, colID, item.Amount)
	r.trackOrphan(rowIDs, colID, item.Amount)
}

// trackOrphan records an amount whose row chain contains no top-level row,
// keyed by the deepest row in the chain.
func (r *Report) trackOrphan(rowIDs []string, colID string, amount float64) {
	if len(rowIDs) == 0 {
		return
	}
	deepest := rowIDs[0]
	for _, id := range rowIDs {
		if !strings.Contains(id, ":") {
			return
		}
		if len(id) > len(deepest) {
			deepest = id
		}
	}

	cells, ok := r.orphans[deepest]
	if !ok {
		cells = make(map[string]float64)
		r.orphans[deepest] = cells
	}
	if colID != "" {
		cells[colID] += amount
	}
	cells[TotalID] += amount
}

// claimingCollector returns the deepest collector claiming the segments,
// or nil. Excluded items fall through to their own explicit rows.
func (r *Report) claimingCollector(segments []string) *collector {
	var best *collector
	for _, c := range r.collectors {
		if !c.claims(segments) {
			continue
		}
		if best == nil || len(c.prefix) > len(best.prefix) {
			best = c
		}
	}
	return best
}

// skip drops the configured number of leading segments.
func (r *Report) skip(segments []string) []string {
	if r.SkipLevels <= 0 {
		return segments
	}
	if r.SkipLevels >= len(segments) {
		return nil
	}
	return segments[r.SkipLevels:]
}

// ensureRowPath materializes the rows for a category path and returns the
// row IDs an item with that path contributes to. Blank categories collapse
// to the synthetic top-level [Blank] row. LeafRowsOnly series materialize
// only the single deepest row, flat at level 0 with no parents.
func (r *Report) ensureRowPath(segments []string, leafOnly bool) []string {
	if len(segments) == 0 {
		if _, ok := r.rows[BlankName]; !ok {
			r.rows[BlankName] = &RowLabel{
				UniqueID: BlankName,
				Name:     BlankName,
				Level:    r.NumLevels - 1,
			}
		}
		return []string{BlankName}
	}

	depth := len(segments)
	if depth > r.NumLevels {
		depth = r.NumLevels
	}

	if leafOnly {
		id := strings.Join(segments[:depth], ":")
		if _, ok := r.rows[id]; !ok {
			r.rows[id] = &RowLabel{
				UniqueID: id,
				Name:     segments[depth-1],
				LeafOnly: true,
			}
		}
		return []string{id}
	}

	ids := make([]string, 0, depth)
	for d := 1; d <= depth; d++ {
		id := strings.Join(segments[:d], ":")
		if _, ok := r.rows[id]; !ok {
			parent := ""
			if d > 1 {
				parent = strings.Join(segments[:d-1], ":")
			}
			r.rows[id] = &RowLabel{
				UniqueID: id,
				Name:     segments[d-1],
				Level:    r.NumLevels - d,
				Parent:   parent,
			}
		}
		ids = append(ids, id)
	}
	return ids
}

// rowAndAncestors walks parent links from a row up to the top level.
func (r *Report) rowAndAncestors(rowID string) []string {
	ids := []string{rowID}
	for {
		row, ok := r.rows[rowID]
		if !ok || row.Parent == "" {
			return ids
		}
		rowID = row.Parent
		ids = append(ids, rowID)
	}
}

// addCell accumulates an amount into a (row, column) cell and the row's
// total column.
func (r *Report) addCell(rowID, colID string, amount float64) {
	cells, ok := r.cells[rowID]
	if !ok {
		cells = make(map[string]float64)
		r.cells[rowID] = cells
	}
	if colID != "" {
		cells[colID] += amount
	}
	cells[TotalID] += amount
}

// buildColumns fixes the display column set: data columns, then the total
// column, then custom columns.
func (r *Report) buildColumns(monthsSeen map[string]bool) {
	r.columns = nil

	if r.seriesColumns() {
		for _, series := range r.Source {
			r.columns = append(r.columns, &ColumnLabel{
				UniqueID: series.Name,
				Name:     series.Name,
			})
		}
	} else if r.WithMonthColumns {
		ids := make([]string, 0, len(monthsSeen))
		for id := range monthsSeen {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			month := time.Month(int(id[0]-'0')*10 + int(id[1]-'0'))
			r.columns = append(r.columns, &ColumnLabel{
				UniqueID: id,
				Name:     month.String()[:3],
			})
		}
	}

	r.columns = append(r.columns, &ColumnLabel{UniqueID: TotalID, Name: "Total", IsTotal: true})
	r.columns = append(r.columns, r.customCols...)
}

// evaluateCustomColumns runs each custom function per row over that row's
// populated data values.
func (r *Report) evaluateCustomColumns() {
	if len(r.customCols) == 0 {
		return
	}
	for rowID := range r.rows {
		values := make(map[string]float64, len(r.cells[rowID]))
		for colID, v := range r.cells[rowID] {
			values[colID] = v
		}
		for _, cc := range r.customCols {
			r.addCellRaw(rowID, cc.UniqueID, cc.Custom(values))
		}
	}
}

// addCellRaw stores a value without touching the total column.
func (r *Report) addCellRaw(rowID, colID string, value float64) {
	cells, ok := r.cells[rowID]
	if !ok {
		cells = make(map[string]float64)
		r.cells[rowID] = cells
	}
	cells[colID] = value
}

// Value returns one cell of the grid. Missing cells are zero.
func (r *Report) Value(rowID, colID string) float64 {
	return r.cells[rowID][colID]
}

// RowTotal returns a row's total-column value.
func (r *Report) RowTotal(rowID string) float64 {
	return r.Value(rowID, TotalID)
}

// GrandTotal returns the total row's total column: the sum of every source
// item's amount.
func (r *Report) GrandTotal() float64 {
	return r.Value(TotalID, TotalID)
}

// Columns returns the display-ordered column labels.
func (r *Report) Columns() []*ColumnLabel {
	return r.columns
}

// Row looks up a row label by its UniqueID.
func (r *Report) Row(rowID string) (*RowLabel, bool) {
	row, ok := r.rows[rowID]
	return row, ok
}

// RowCount returns the number of rows, excluding the total row.
func (r *Report) RowCount() int {
	return len(r.rows) - 1
}
