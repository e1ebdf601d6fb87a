package reports

import (
	"fmt"
	"strings"
)

// QuerySource supplies the raw items a report aggregates. The storage
// layer implements it.
type QuerySource interface {
	// TransactionItems returns every transaction for the year as items.
	TransactionItems(year int) ([]Item, error)
	// BudgetItems returns the year's budget lines as items.
	BudgetItems(year int) ([]Item, error)
}

// QueryKind names which QuerySource query feeds a series.
type QueryKind string

const (
	QueryActual QueryKind = "actual"
	QueryBudget QueryKind = "budget"
)

// SeriesSpec describes one input series of a report definition.
type SeriesSpec struct {
	Name          string
	Query         QueryKind
	LeafRowsOnly  bool
	TopCategories []string // keep only these top-level categories; empty = all
	ExcludeTop    []string // drop these top-level categories
}

// Definition is a named, pre-configured report.
type Definition struct {
	Slug             string
	Name             string
	Description      string
	NumLevels        int
	SkipLevels       int
	WithMonthColumns bool
	SortOrder        SortOrder
	Series           []SeriesSpec
	CustomColumns    []ColumnLabel
}

// Parameters override a definition at build time. Zero values leave the
// definition's own settings in place.
type Parameters struct {
	Slug             string
	Year             int
	NumLevels        int
	SkipLevels       int
	WithMonthColumns *bool
	SortOrder        *SortOrder
}

// spendingTops are the top-level categories excluded from expense-style
// reports.
var spendingTops = []string{"Income", "Taxes", "Savings", "Transfer"}

// pctBudget is the "% Budget" custom column: actual spending as a
// fraction of budget. Rows without a budget read as zero.
func pctBudget(values map[string]float64) float64 {
	budget := values["Budget"]
	if budget == 0 {
		return 0
	}
	return values["Actual"] / budget
}

// defaultDefinitions is the built-in report catalog.
var defaultDefinitions = []Definition{
	{
		Slug:             "all",
		Name:             "All Transactions",
		Description:      "Everything, by category and month",
		NumLevels:        2,
		WithMonthColumns: true,
		Series:           []SeriesSpec{{Name: "Actual", Query: QueryActual}},
	},
	{
		Slug:             "income",
		Name:             "Income",
		Description:      "Income sources by month",
		NumLevels:        1,
		SkipLevels:       1,
		WithMonthColumns: true,
		Series: []SeriesSpec{
			{Name: "Actual", Query: QueryActual, TopCategories: []string{"Income"}},
		},
	},
	{
		Slug:             "expenses",
		Name:             "Expenses",
		Description:      "Spending by category and month",
		NumLevels:        2,
		WithMonthColumns: true,
		Series: []SeriesSpec{
			{Name: "Actual", Query: QueryActual, ExcludeTop: spendingTops},
		},
	},
	{
		Slug:             "expenses-detail",
		Name:             "Expenses Detail",
		Description:      "Spending to full category depth",
		NumLevels:        3,
		WithMonthColumns: true,
		Series: []SeriesSpec{
			{Name: "Actual", Query: QueryActual, ExcludeTop: spendingTops},
		},
	},
	{
		Slug:        "expenses-budget",
		Name:        "Expense Budget",
		Description: "Budget lines for spending categories",
		NumLevels:   2,
		SortOrder:   SortByNameAscending,
		Series: []SeriesSpec{
			{Name: "Budget", Query: QueryBudget, LeafRowsOnly: true, ExcludeTop: spendingTops},
		},
	},
	{
		Slug:        "expenses-v-budget",
		Name:        "Expenses vs. Budget",
		Description: "Spending laid against budget lines",
		NumLevels:   2,
		SortOrder:   SortByNameAscending,
		Series: []SeriesSpec{
			{Name: "Budget", Query: QueryBudget, LeafRowsOnly: true, ExcludeTop: spendingTops},
			{Name: "Actual", Query: QueryActual, ExcludeTop: spendingTops},
		},
		CustomColumns: []ColumnLabel{
			{UniqueID: "PctBudget", Name: "% Budget", DisplayAsPercent: true, Custom: pctBudget},
		},
	},
}

// Builder resolves report definitions against a query source.
type Builder struct {
	source      QuerySource
	definitions []Definition
}

// NewBuilder creates a builder over the built-in report catalog.
func NewBuilder(source QuerySource) *Builder {
	return &Builder{source: source, definitions: defaultDefinitions}
}

// Definitions lists the available report definitions.
func (b *Builder) Definitions() []Definition {
	out := make([]Definition, len(b.definitions))
	copy(out, b.definitions)
	return out
}

// Definition looks up one definition by slug.
func (b *Builder) Definition(slug string) (Definition, bool) {
	for _, d := range b.definitions {
		if d.Slug == slug {
			return d, true
		}
	}
	return Definition{}, false
}

// Build resolves a definition, applies parameter overrides, fetches the
// source items, and builds the report.
func (b *Builder) Build(params Parameters) (*Report, error) {
	def, ok := b.Definition(params.Slug)
	if !ok {
		return nil, fmt.Errorf("unknown report %q", params.Slug)
	}

	r := &Report{
		Name:             def.Name,
		Description:      def.Description,
		NumLevels:        def.NumLevels,
		SkipLevels:       def.SkipLevels,
		WithMonthColumns: def.WithMonthColumns,
		SortOrder:        def.SortOrder,
	}
	if params.NumLevels > 0 {
		r.NumLevels = params.NumLevels
	}
	if params.SkipLevels > 0 {
		r.SkipLevels = params.SkipLevels
	}
	if params.WithMonthColumns != nil {
		r.WithMonthColumns = *params.WithMonthColumns
	}
	if params.SortOrder != nil {
		r.SortOrder = *params.SortOrder
	}

	for _, spec := range def.Series {
		items, err := b.fetch(spec, params.Year)
		if err != nil {
			return nil, fmt.Errorf("report %q series %q: %w", def.Slug, spec.Name, err)
		}
		r.Source = append(r.Source, NamedSeries{
			Name:         spec.Name,
			Items:        items,
			LeafRowsOnly: spec.LeafRowsOnly,
		})
	}

	for _, col := range def.CustomColumns {
		if err := r.AddCustomColumn(col); err != nil {
			return nil, fmt.Errorf("report %q column %q: %w", def.Slug, col.Name, err)
		}
	}

	if err := r.Build(); err != nil {
		return nil, fmt.Errorf("building report %q: %w", def.Slug, err)
	}
	return r, nil
}

// fetch loads and filters one series' items.
func (b *Builder) fetch(spec SeriesSpec, year int) ([]Item, error) {
	var (
		items []Item
		err   error
	)
	switch spec.Query {
	case QueryBudget:
		items, err = b.source.BudgetItems(year)
	default:
		items, err = b.source.TransactionItems(year)
	}
	if err != nil {
		return nil, err
	}

	if len(spec.TopCategories) == 0 && len(spec.ExcludeTop) == 0 {
		return items, nil
	}

	keep := make(map[string]bool, len(spec.TopCategories))
	for _, c := range spec.TopCategories {
		keep[c] = true
	}
	drop := make(map[string]bool, len(spec.ExcludeTop))
	for _, c := range spec.ExcludeTop {
		drop[c] = true
	}

	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		top := item.Category
		if i := strings.Index(top, ":"); i >= 0 {
			top = top[:i]
		}
		if len(keep) > 0 && !keep[top] {
			continue
		}
		if drop[top] {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered, nil
}
