package reports

import "time"

// Item is one aggregatable record: a transaction, a budget line, or
// anything else with an amount, a date, and a colon-delimited category.
type Item struct {
	Amount    float64
	Timestamp time.Time
	Category  string
}

// NamedSeries is a named, independently-sourced collection of items
// contributing its own report column when the report is not month-driven.
//
// LeafRowsOnly marks a coarse series (typically budget lines): each item
// materializes only its single deepest row, with no intermediate parent
// rows, so detailed actuals can be laid against a flat budget row set.
type NamedSeries struct {
	Name         string
	Items        []Item
	LeafRowsOnly bool
}

// SortOrder selects how sibling rows are ordered for display.
type SortOrder int

const (
	// SortByTotalDescending puts the biggest row first. Default.
	SortByTotalDescending SortOrder = iota
	// SortByTotalAscending puts the smallest row first.
	SortByTotalAscending
	// SortByNameAscending orders rows alphabetically.
	SortByNameAscending
	// SortByNameDescending orders rows reverse-alphabetically.
	SortByNameDescending
)

// TotalID is the UniqueID of both the grand-total row and the total
// column.
const TotalID = "TOTAL"

// BlankName labels the synthetic top-level row that absorbs items with no
// category.
const BlankName = "[Blank]"

// RowLabel is one node in the category tree. Rows live in a flat arena
// keyed by UniqueID; Parent refers to another row by key, never by
// pointer, so slices can rebuild arenas cheaply.
type RowLabel struct {
	UniqueID string // full colon-delimited path; TotalID for the total row
	Name     string // display name: the last path segment
	Level    int    // 0 = deepest requested level
	Parent   string // UniqueID of the parent row, "" for top-level rows
	IsTotal  bool
	LeafOnly bool // materialized by a leaf-rows-only series, outside any parent chain
}

// CustomColumnFunc computes a derived value for one row from the row's
// populated column values, keyed by column UniqueID.
type CustomColumnFunc func(values map[string]float64) float64

// ColumnLabel is one column of the grid: a calendar month, a series, the
// synthetic total, or a caller-supplied computed column.
type ColumnLabel struct {
	UniqueID         string
	Name             string
	IsTotal          bool
	DisplayAsPercent bool             // formatting hint only; stored values stay raw
	Custom           CustomColumnFunc // nil for data columns
}
