package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sliceItems() []Item {
	return []Item{
		item("Food:Groceries", time.January, 100),
		item("Food:Groceries", time.February, 150),
		item("Food:Dining", time.February, 80),
		item("Auto:Fuel", time.January, 60),
		item("Auto:Repair", time.March, 400),
		item("Income:Salary", time.January, 5000),
	}
}

// budgetVsActualSeries pairs a flat leaf-rows-only budget series with a
// detailed actual series, the shape the budget reports use.
func budgetVsActualSeries() []NamedSeries {
	return []NamedSeries{
		{Name: "Budget", LeafRowsOnly: true, Items: []Item{
			item("Food:Groceries", time.January, 500),
			item("Food:Dining", time.January, 200),
			item("Auto:Fuel", time.January, 300),
		}},
		{Name: "Actual", Items: []Item{
			item("Food:Groceries", time.February, 100),
			item("Auto:Fuel", time.February, 80),
		}},
	}
}

// buildBudgetVsActual builds the two-series report, optionally restricted
// to one top-level category.
func buildBudgetVsActual(t *testing.T, keepTop string) *Report {
	t.Helper()
	series := budgetVsActualSeries()
	if keepTop != "" {
		for i := range series {
			var kept []Item
			for _, it := range series[i].Items {
				if strings.HasPrefix(it.Category, keepTop) {
					kept = append(kept, it)
				}
			}
			series[i].Items = kept
		}
	}
	return buildReport(t, &Report{Source: series, NumLevels: 2})
}

func buildOver(t *testing.T, items []Item) *Report {
	t.Helper()
	return buildReport(t, &Report{
		Source:           []NamedSeries{{Name: "Actual", Items: items}},
		NumLevels:        2,
		WithMonthColumns: true,
	})
}

// assertSameGrid checks that two built reports carry identical row sets
// and cell values.
func assertSameGrid(t *testing.T, want, got *Report) {
	t.Helper()

	require.Equal(t, len(want.rows), len(got.rows))
	for id, wantRow := range want.rows {
		gotRow, ok := got.rows[id]
		require.True(t, ok, "missing row %q", id)
		assert.Equal(t, wantRow.Level, gotRow.Level, "row %q level", id)
		assert.Equal(t, wantRow.Parent, gotRow.Parent, "row %q parent", id)

		for _, col := range want.Columns() {
			assert.InDelta(t, want.Value(id, col.UniqueID), got.Value(id, col.UniqueID),
				1e-9, "cell (%s, %s)", id, col.UniqueID)
		}
	}
}

func TestTakeSlice_MatchesFreshBuild(t *testing.T) {
	// Arrange
	full := buildOver(t, sliceItems())

	var foodOnly []Item
	for _, it := range sliceItems() {
		if strings.HasPrefix(it.Category, "Food") {
			foodOnly = append(foodOnly, it)
		}
	}
	fresh := buildOver(t, foodOnly)

	// Act
	sliced, err := full.TakeSlice("Food")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fresh.GrandTotal(), sliced.Value(TotalID, TotalID))
	assert.Equal(t, 330.0, sliced.RowTotal("Food"))
	assert.Equal(t, 250.0, sliced.RowTotal("Food:Groceries"))

	_, ok := sliced.Row("Auto")
	assert.False(t, ok)
	_, ok = sliced.Row("Income:Salary")
	assert.False(t, ok)

	// Month detail survives the slice.
	assert.Equal(t, 230.0, sliced.Value(TotalID, "02"))
}

func TestTakeSlice_LeafSeriesAmountsSurvive(t *testing.T) {
	// Arrange
	full := buildBudgetVsActual(t, "")
	fresh := buildBudgetVsActual(t, "Food")

	// Act
	sliced, err := full.TakeSlice("Food")

	// Assert
	require.NoError(t, err)
	assertSameGrid(t, fresh, sliced)
	// Budget rows have no parent chain, yet still count toward the totals.
	assert.Equal(t, 800.0, sliced.GrandTotal())
	assert.Equal(t, 700.0, sliced.Value(TotalID, "Budget"))
	assert.Equal(t, 500.0, sliced.Value("Food:Groceries", "Budget"))
}

func TestTakeSlice_RequiresBuild(t *testing.T) {
	r := &Report{Source: []NamedSeries{{Name: "Actual"}}, NumLevels: 1}

	_, err := r.TakeSlice("Food")

	assert.ErrorIs(t, err, ErrNotBuilt)
}

func TestTakeSliceExcept_MatchesFreshBuild(t *testing.T) {
	full := buildOver(t, sliceItems())

	var spending []Item
	for _, it := range sliceItems() {
		if !strings.HasPrefix(it.Category, "Income") {
			spending = append(spending, it)
		}
	}
	fresh := buildOver(t, spending)

	sliced, err := full.TakeSliceExcept([]string{"Income"})

	require.NoError(t, err)
	assertSameGrid(t, fresh, sliced)
}

func TestTakeSliceExcept_LeafSeriesAmountsSurvive(t *testing.T) {
	full := buildBudgetVsActual(t, "")
	fresh := buildBudgetVsActual(t, "Auto")

	sliced, err := full.TakeSliceExcept([]string{"Food"})

	require.NoError(t, err)
	assertSameGrid(t, fresh, sliced)
	assert.Equal(t, 380.0, sliced.GrandTotal())
	assert.Equal(t, 300.0, sliced.Value(TotalID, "Budget"))
}

func TestTakeSliceExcept_RecomputesCustomColumns(t *testing.T) {
	r := &Report{
		Source: []NamedSeries{
			{Name: "Budget", Items: []Item{
				item("Food", time.January, 400),
				item("Auto", time.January, 600),
			}},
			{Name: "Actual", Items: []Item{
				item("Food", time.January, 100),
				item("Auto", time.January, 300),
			}},
		},
		NumLevels: 1,
	}
	require.NoError(t, r.AddCustomColumn(ColumnLabel{
		UniqueID: "PctBudget",
		Name:     "% Budget",
		Custom: func(values map[string]float64) float64 {
			if values["Budget"] == 0 {
				return 0
			}
			return values["Actual"] / values["Budget"]
		},
	}))
	buildReport(t, r)

	sliced, err := r.TakeSliceExcept([]string{"Auto"})

	require.NoError(t, err)
	// Total row ratio reflects only the remaining categories.
	assert.InDelta(t, 0.25, sliced.Value(TotalID, "PctBudget"), 1e-9)
	assert.Equal(t, 500.0, sliced.Value(TotalID, TotalID))
}

func TestTakeSliceExcept_CustomColumnsSeeOnlyDataValues(t *testing.T) {
	r := &Report{
		Source: []NamedSeries{
			{Name: "Budget", Items: []Item{
				item("Food", time.January, 400),
				item("Auto", time.January, 600),
			}},
			{Name: "Actual", Items: []Item{
				item("Food", time.January, 100),
				item("Auto", time.January, 300),
			}},
		},
		NumLevels: 1,
	}
	require.NoError(t, r.AddCustomColumn(ColumnLabel{
		UniqueID: "Remaining",
		Name:     "Remaining",
		Custom: func(values map[string]float64) float64 {
			return values["Budget"] - values["Actual"]
		},
	}))
	// Sums every value it is given, so it would expose any column leaking
	// into its input.
	require.NoError(t, r.AddCustomColumn(ColumnLabel{
		UniqueID: "Activity",
		Name:     "Activity",
		Custom: func(values map[string]float64) float64 {
			var sum float64
			for _, v := range values {
				sum += v
			}
			return sum
		},
	}))
	buildReport(t, r)

	sliced, err := r.TakeSliceExcept([]string{"Auto"})

	require.NoError(t, err)
	// Budget 400 + Actual 100 + Total 500; Remaining must not be included.
	assert.InDelta(t, 1000.0, sliced.Value(TotalID, "Activity"), 1e-9)
	assert.InDelta(t, 300.0, sliced.Value(TotalID, "Remaining"), 1e-9)
}

func TestPruneToLevel_MatchesShallowBuild(t *testing.T) {
	full := buildOver(t, sliceItems())

	fresh := buildReport(t, &Report{
		Source:           []NamedSeries{{Name: "Actual", Items: sliceItems()}},
		NumLevels:        1,
		WithMonthColumns: true,
	})

	pruned, err := full.PruneToLevel(1)

	require.NoError(t, err)
	assertSameGrid(t, fresh, pruned)
	assert.Equal(t, full.GrandTotal(), pruned.GrandTotal())
}

func TestPruneToLevel_LeafSeriesAmountsSurvive(t *testing.T) {
	// Arrange
	full := buildBudgetVsActual(t, "")
	fresh := buildReport(t, &Report{Source: budgetVsActualSeries(), NumLevels: 1})

	// Act
	pruned, err := full.PruneToLevel(1)

	// Assert
	require.NoError(t, err)
	assertSameGrid(t, fresh, pruned)
	// Budget lines fold into the rows at their truncated paths.
	assert.Equal(t, 800.0, pruned.RowTotal("Food"))
	assert.Equal(t, 380.0, pruned.RowTotal("Auto"))
	assert.Equal(t, full.GrandTotal(), pruned.GrandTotal())
}

func TestPruneToLevel_Zero(t *testing.T) {
	full := buildOver(t, sliceItems())

	pruned, err := full.PruneToLevel(0)

	require.NoError(t, err)
	assertSameGrid(t, full, pruned)
}

func TestPruneToLevel_Bounds(t *testing.T) {
	full := buildOver(t, sliceItems())

	_, err := full.PruneToLevel(-1)
	assert.ErrorIs(t, err, ErrBadLevels)

	_, err = full.PruneToLevel(2)
	assert.ErrorIs(t, err, ErrBadLevels)
}
