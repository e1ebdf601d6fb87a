package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwhalen/ledgerline/internal/domain/receipt"
)

// Mock transaction for testing
type mockTx struct {
	id     int64
	payee  string
	amount float64
	date   time.Time
}

func (m *mockTx) GetID() int64       { return m.id }
func (m *mockTx) GetPayee() string   { return m.payee }
func (m *mockTx) GetAmount() float64 { return m.amount }
func (m *mockTx) GetDate() time.Time { return m.date }

var day = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func amt(v float64) *float64 { return &v }

func TestScore_SampleTotals(t *testing.T) {
	m := New(DefaultConfig())

	tx := &mockTx{id: 1, payee: "Uptown Espresso", amount: -5.11, date: day}

	t.Run("same day plus amount is 200", func(t *testing.T) {
		r := receipt.Receipt{Amount: amt(5.11), Timestamp: day}
		assert.Equal(t, 200, m.Score(r, tx))
	})

	t.Run("seven days off plus amount is 193", func(t *testing.T) {
		r := receipt.Receipt{Amount: amt(5.11), Timestamp: day.AddDate(0, 0, -7)}
		assert.Equal(t, 193, m.Score(r, tx))
	})

	t.Run("name match adds 100", func(t *testing.T) {
		r := receipt.Receipt{Name: "Uptown Espresso", Amount: amt(5.11), Timestamp: day}
		assert.Equal(t, 300, m.Score(r, tx))
	})

	t.Run("amount only is 100", func(t *testing.T) {
		r := receipt.Receipt{Amount: amt(5.11)}
		assert.Equal(t, 100, m.Score(r, tx))
	})
}

func TestScore_NameContainment(t *testing.T) {
	m := New(DefaultConfig())

	t.Run("receipt name inside payee", func(t *testing.T) {
		tx := &mockTx{payee: "UPTOWN ESPRESSO #204 SEATTLE"}
		r := receipt.Receipt{Name: "uptown espresso"}
		assert.Equal(t, 100, m.Score(r, tx))
	})

	t.Run("payee inside receipt name", func(t *testing.T) {
		tx := &mockTx{payee: "Uptown"}
		r := receipt.Receipt{Name: "Uptown Espresso"}
		assert.Equal(t, 100, m.Score(r, tx))
	})

	t.Run("empty names never match", func(t *testing.T) {
		tx := &mockTx{payee: "Anywhere"}
		assert.Equal(t, 0, m.Score(receipt.Receipt{}, tx))
	})
}

func TestScore_AmountSignInsensitive(t *testing.T) {
	m := New(DefaultConfig())

	// Ledger debits come through negative, receipts are always positive.
	tx := &mockTx{payee: "Store", amount: -25.00}
	r := receipt.Receipt{Amount: amt(25.00)}

	assert.Equal(t, 100, m.Score(r, tx))
}

func TestScore_AmountTolerance(t *testing.T) {
	m := New(DefaultConfig())

	tx := &mockTx{amount: 10.00}

	assert.Equal(t, 100, m.Score(receipt.Receipt{Amount: amt(10.004)}, tx))
	assert.Equal(t, 0, m.Score(receipt.Receipt{Amount: amt(10.01)}, tx))
}

func TestScore_DateGates(t *testing.T) {
	m := New(DefaultConfig())

	t.Run("date alone scores zero", func(t *testing.T) {
		tx := &mockTx{payee: "Unrelated", amount: 99.00, date: day}
		r := receipt.Receipt{Name: "Something Else", Amount: amt(1.23), Timestamp: day}
		assert.Equal(t, 0, m.Score(r, tx))
	})

	t.Run("out of window kills a perfect name and amount match", func(t *testing.T) {
		tx := &mockTx{payee: "Uptown Espresso", amount: -5.11, date: day}
		r := receipt.Receipt{
			Name:      "Uptown Espresso",
			Amount:    amt(5.11),
			Timestamp: day.AddDate(0, 0, 14),
		}
		assert.Equal(t, 0, m.Score(r, tx))
	})

	t.Run("thirteen days off still counts", func(t *testing.T) {
		tx := &mockTx{payee: "Uptown Espresso", amount: -5.11, date: day}
		r := receipt.Receipt{Amount: amt(5.11), Timestamp: day.AddDate(0, 0, 13)}
		assert.Equal(t, 187, m.Score(r, tx))
	})

	t.Run("receipt without a date is never gated", func(t *testing.T) {
		tx := &mockTx{payee: "Uptown Espresso", amount: -5.11, date: day}
		r := receipt.Receipt{Name: "Uptown Espresso", Amount: amt(5.11)}
		assert.Equal(t, 200, m.Score(r, tx))
	})
}

func TestScore_NilTransaction(t *testing.T) {
	m := New(DefaultConfig())
	assert.Equal(t, 0, m.Score(receipt.Receipt{Name: "x"}, nil))
}

func TestFindBestMatch(t *testing.T) {
	m := New(DefaultConfig())

	r := receipt.Receipt{Name: "Espresso", Amount: amt(5.11), Timestamp: day}
	txs := []Transaction{
		&mockTx{id: 1, payee: "Espresso", amount: -5.11, date: day.AddDate(0, 0, 3)},
		&mockTx{id: 2, payee: "Espresso", amount: -5.11, date: day},
		&mockTx{id: 3, payee: "Gas Station", amount: -40.00, date: day},
	}

	best := m.FindBestMatch(r, txs)

	require.NotNil(t, best)
	assert.Equal(t, int64(2), best.GetID())
}

func TestFindBestMatch_TieGoesToLowerID(t *testing.T) {
	m := New(DefaultConfig())

	r := receipt.Receipt{Name: "Espresso", Amount: amt(5.11)}
	txs := []Transaction{
		&mockTx{id: 7, payee: "Espresso", amount: -5.11, date: day},
		&mockTx{id: 3, payee: "Espresso", amount: -5.11, date: day},
	}

	best := m.FindBestMatch(r, txs)

	require.NotNil(t, best)
	assert.Equal(t, int64(3), best.GetID())
}

func TestFindBestMatch_NothingScores(t *testing.T) {
	m := New(DefaultConfig())

	r := receipt.Receipt{Name: "Espresso"}
	txs := []Transaction{&mockTx{id: 1, payee: "Hardware Store"}}

	assert.Nil(t, m.FindBestMatch(r, txs))
}

func TestMatchCount(t *testing.T) {
	m := New(DefaultConfig())

	r := receipt.Receipt{Amount: amt(12.00)}
	txs := []Transaction{
		&mockTx{id: 1, amount: -12.00, date: day},
		&mockTx{id: 2, amount: 12.00, date: day},
		&mockTx{id: 3, amount: -99.00, date: day},
	}

	assert.Equal(t, 2, m.MatchCount(r, txs))
}

func TestRankReceipts(t *testing.T) {
	m := New(DefaultConfig())

	tx := &mockTx{id: 1, payee: "Espresso", amount: -5.11, date: day}
	receipts := []receipt.Receipt{
		{ID: "a", Name: "Espresso", Amount: amt(5.11), Timestamp: day}, // 300
		{ID: "b", Name: "Espresso"},                                   // 100
		{ID: "c", Name: "Bookstore"},                                  // 0, dropped
		{ID: "d", Amount: amt(5.11)},                                  // 100
	}

	ranked := m.RankReceipts(tx, receipts)

	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].ID)
	// Equal scores break on receipt ID.
	assert.Equal(t, "b", ranked[1].ID)
	assert.Equal(t, "d", ranked[2].ID)
}

func TestNarrowByDate(t *testing.T) {
	m := New(DefaultConfig())

	txs := []Transaction{
		&mockTx{id: 1, date: day},
		&mockTx{id: 2, date: day.AddDate(0, 0, 13)},
		&mockTx{id: 3, date: day.AddDate(0, 0, 14)},
		&mockTx{id: 4, date: day.AddDate(0, 0, -20)},
	}

	t.Run("keeps only the window around dated receipts", func(t *testing.T) {
		receipts := []receipt.Receipt{{Timestamp: day}}

		kept := m.NarrowByDate(txs, receipts)

		require.Len(t, kept, 2)
		assert.Equal(t, int64(1), kept[0].GetID())
		assert.Equal(t, int64(2), kept[1].GetID())
	})

	t.Run("any dateless receipt keeps everything", func(t *testing.T) {
		receipts := []receipt.Receipt{{Timestamp: day}, {Name: "no date"}}

		kept := m.NarrowByDate(txs, receipts)

		assert.Len(t, kept, 4)
	})
}
