package receipt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Clock pinned mid-year so month-day tokens before and after the boundary
// both get exercised.
var testClock = FixedClock{Time: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)}

func TestFromFilename_AllTokens(t *testing.T) {
	// Act
	r := FromFilename("Uptown Espresso $5.11 1-2 (drip).png", testClock)

	// Assert
	assert.Equal(t, "Uptown Espresso", r.Name)
	require.NotNil(t, r.Amount)
	assert.Equal(t, 5.11, *r.Amount)
	assert.Equal(t, "drip", r.Memo)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), r.Timestamp)
	assert.Equal(t, "Uptown Espresso $5.11 1-2 (drip).png", r.Filename)
}

func TestFromFilename_NameOnly(t *testing.T) {
	r := FromFilename("Trader Joes.jpg", testClock)

	assert.Equal(t, "Trader Joes", r.Name)
	assert.Nil(t, r.Amount)
	assert.Empty(t, r.Memo)
	assert.False(t, r.HasDate())
}

func TestFromFilename_AmountOnly(t *testing.T) {
	r := FromFilename("$123.45.png", testClock)

	assert.Empty(t, r.Name)
	require.NotNil(t, r.Amount)
	assert.Equal(t, 123.45, *r.Amount)
}

func TestFromFilename_WholeDollarAmount(t *testing.T) {
	r := FromFilename("Parking $20.png", testClock)

	assert.Equal(t, "Parking", r.Name)
	require.NotNil(t, r.Amount)
	assert.Equal(t, 20.0, *r.Amount)
}

func TestFromFilename_MultiTokenMemo(t *testing.T) {
	r := FromFilename("Olive Garden $64.10 (lunch with team).png", testClock)

	assert.Equal(t, "Olive Garden", r.Name)
	assert.Equal(t, "lunch with team", r.Memo)
}

func TestFromFilename_UnbalancedParenStaysInName(t *testing.T) {
	r := FromFilename("Oops (half open.png", testClock)

	assert.Equal(t, "Oops (half open", r.Name)
	assert.Empty(t, r.Memo)
}

func TestFromFilename_DateYearInference(t *testing.T) {
	t.Run("past month-day stays in current year", func(t *testing.T) {
		r := FromFilename("Cafe 3-10.png", testClock)

		assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), r.Timestamp)
	})

	t.Run("future month-day rolls back a year", func(t *testing.T) {
		r := FromFilename("Cafe 11-20.png", testClock)

		assert.Equal(t, time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC), r.Timestamp)
	})
}

func TestFromFilename_InvalidDateTokenKept(t *testing.T) {
	// 13-40 is not a calendar date, so the token belongs to the name.
	r := FromFilename("Warehouse 13-40.png", testClock)

	assert.False(t, r.HasDate())
	assert.Equal(t, "Warehouse 13-40", r.Name)
}

func TestFromFilename_TokenOrderIrrelevant(t *testing.T) {
	a := FromFilename("$9.99 Corner Store 2-14.png", testClock)
	b := FromFilename("Corner Store $9.99 2-14.png", testClock)

	assert.Equal(t, a.Name, b.Name)
	assert.Equal(t, *a.Amount, *b.Amount)
	assert.Equal(t, a.Timestamp, b.Timestamp)
}

func TestFromFilename_EmptyAfterExtension(t *testing.T) {
	r := FromFilename(".png", testClock)

	assert.Empty(t, r.Name)
	assert.Nil(t, r.Amount)
	assert.False(t, r.HasDate())
}

func TestFromFilename_StripsDirectory(t *testing.T) {
	r := FromFilename("/uploads/2024/Big Box $42.00.png", testClock)

	assert.Equal(t, "Big Box", r.Name)
	require.NotNil(t, r.Amount)
	assert.Equal(t, 42.0, *r.Amount)
}

func TestHasDate(t *testing.T) {
	assert.False(t, Receipt{}.HasDate())
	assert.True(t, Receipt{Timestamp: time.Now()}.HasDate())
}
