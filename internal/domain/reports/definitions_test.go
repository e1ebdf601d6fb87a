package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves canned items for builder tests.
type fakeSource struct {
	transactions []Item
	budget       []Item
}

func (f *fakeSource) TransactionItems(year int) ([]Item, error) {
	return filterYear(f.transactions, year), nil
}

func (f *fakeSource) BudgetItems(year int) ([]Item, error) {
	return filterYear(f.budget, year), nil
}

func filterYear(items []Item, year int) []Item {
	var out []Item
	for _, it := range items {
		if it.Timestamp.Year() == year {
			out = append(out, it)
		}
	}
	return out
}

func builderFixture() *Builder {
	return NewBuilder(&fakeSource{
		transactions: []Item{
			item("Income:Salary", time.January, 5000),
			item("Food:Groceries", time.January, 120),
			item("Food:Dining", time.February, 80),
			item("Auto:Fuel", time.February, 60),
			item("Taxes:Federal", time.April, 900),
		},
		budget: []Item{
			item("Food:Groceries", time.January, 500),
			item("Auto:Fuel", time.January, 100),
		},
	})
}

func TestBuilder_Definitions(t *testing.T) {
	b := builderFixture()

	defs := b.Definitions()
	assert.NotEmpty(t, defs)

	slugs := make(map[string]bool)
	for _, d := range defs {
		slugs[d.Slug] = true
	}
	for _, want := range []string{"all", "income", "expenses", "expenses-v-budget"} {
		assert.True(t, slugs[want], "missing definition %q", want)
	}
}

func TestBuilder_UnknownSlug(t *testing.T) {
	b := builderFixture()

	_, err := b.Build(Parameters{Slug: "nope", Year: 2024})

	assert.Error(t, err)
}

func TestBuilder_AllReport(t *testing.T) {
	b := builderFixture()

	r, err := b.Build(Parameters{Slug: "all", Year: 2024})

	require.NoError(t, err)
	assert.Equal(t, 6160.0, r.GrandTotal())
}

func TestBuilder_IncomeReportSkipsTopLevel(t *testing.T) {
	b := builderFixture()

	r, err := b.Build(Parameters{Slug: "income", Year: 2024})

	require.NoError(t, err)
	// Only income items, with the "Income" segment skipped.
	assert.Equal(t, 5000.0, r.RowTotal("Salary"))
	assert.Equal(t, 5000.0, r.GrandTotal())
}

func TestBuilder_ExpensesExcludesNonSpending(t *testing.T) {
	b := builderFixture()

	r, err := b.Build(Parameters{Slug: "expenses", Year: 2024})

	require.NoError(t, err)
	assert.Equal(t, 260.0, r.GrandTotal())
	_, ok := r.Row("Income")
	assert.False(t, ok)
	_, ok = r.Row("Taxes")
	assert.False(t, ok)
}

func TestBuilder_ExpensesVsBudget(t *testing.T) {
	b := builderFixture()

	r, err := b.Build(Parameters{Slug: "expenses-v-budget", Year: 2024})

	require.NoError(t, err)
	assert.Equal(t, 500.0, r.Value("Food:Groceries", "Budget"))
	assert.Equal(t, 120.0, r.Value("Food:Groceries", "Actual"))
	assert.InDelta(t, 0.24, r.Value("Food:Groceries", "PctBudget"), 1e-9)
}

func TestBuilder_ParameterOverrides(t *testing.T) {
	b := builderFixture()

	months := false
	r, err := b.Build(Parameters{
		Slug:             "all",
		Year:             2024,
		NumLevels:        1,
		WithMonthColumns: &months,
	})

	require.NoError(t, err)
	// Depth forced to one level: subcategories roll up.
	_, ok := r.Row("Food:Groceries")
	assert.False(t, ok)
	assert.Equal(t, 200.0, r.RowTotal("Food"))

	// Months off leaves only the total column.
	cols := r.Columns()
	require.Len(t, cols, 1)
	assert.True(t, cols[0].IsTotal)
}

func TestBuilder_YearIsolation(t *testing.T) {
	src := &fakeSource{
		transactions: []Item{
			item("Food", time.January, 100),
			{Amount: 999, Timestamp: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Category: "Food"},
		},
	}
	b := NewBuilder(src)

	r, err := b.Build(Parameters{Slug: "all", Year: 2024})

	require.NoError(t, err)
	assert.Equal(t, 100.0, r.GrandTotal())
}
