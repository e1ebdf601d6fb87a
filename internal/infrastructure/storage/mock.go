package storage

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/kwhalen/ledgerline/internal/domain/receipt"
	"github.com/kwhalen/ledgerline/internal/domain/reports"
)

// MockRepository is an in-memory Repository for tests.
type MockRepository struct {
	mu           sync.Mutex
	nextTxID     int64
	nextBudgetID int64
	transactions map[int64]*Transaction
	receipts     map[string]*receipt.Receipt
	receiptOrder []string
	budget       []BudgetItem
}

var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		transactions: make(map[int64]*Transaction),
		receipts:     make(map[string]*receipt.Receipt),
	}
}

func (m *MockRepository) Close() error { return nil }

func (m *MockRepository) SaveTransaction(t *Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTxID++
	t.ID = m.nextTxID
	clone := *t
	m.transactions[t.ID] = &clone
	return nil
}

func (m *MockRepository) SaveTransactions(txs []*Transaction) (int, error) {
	inserted := 0
	for _, t := range txs {
		if t.Hash == "" {
			t.Hash = t.GenerateHash()
		}
		if m.hasHash(t.Hash) {
			continue
		}
		if err := m.SaveTransaction(t); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (m *MockRepository) hasHash(hash string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.transactions {
		if t.Hash == hash {
			return true
		}
	}
	return false
}

func (m *MockRepository) GetTransaction(id int64) (*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (m *MockRepository) ListTransactions(f TransactionFilters) ([]*Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var txs []*Transaction
	for _, t := range m.transactions {
		if f.Year != 0 && t.Timestamp.Year() != f.Year {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(t.Payee), strings.ToLower(f.Search)) {
			continue
		}
		if f.Unreconciled && t.ReceiptID != "" {
			continue
		}
		clone := *t
		txs = append(txs, &clone)
	}

	sort.Slice(txs, func(i, j int) bool {
		if !txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].Timestamp.Before(txs[j].Timestamp)
		}
		return txs[i].ID < txs[j].ID
	})

	if f.Offset > 0 {
		if f.Offset >= len(txs) {
			return nil, nil
		}
		txs = txs[f.Offset:]
	}
	if f.Limit > 0 && len(txs) > f.Limit {
		txs = txs[:f.Limit]
	}
	return txs, nil
}

func (m *MockRepository) TransactionItems(year int) ([]reports.Item, error) {
	txs, err := m.ListTransactions(TransactionFilters{Year: year})
	if err != nil {
		return nil, err
	}
	items := make([]reports.Item, len(txs))
	for i, t := range txs {
		items[i] = reports.Item{Amount: t.Amount, Timestamp: t.Timestamp, Category: t.Category}
	}
	return items, nil
}

func (m *MockRepository) SaveReceipt(r *receipt.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	clone := *r
	m.receipts[r.ID] = &clone
	m.receiptOrder = append(m.receiptOrder, r.ID)
	return nil
}

func (m *MockRepository) GetReceipt(id string) (*receipt.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.receipts[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *r
	return &clone, nil
}

func (m *MockRepository) ListReceipts() ([]receipt.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	receipts := make([]receipt.Receipt, 0, len(m.receipts))
	for _, id := range m.receiptOrder {
		if r, ok := m.receipts[id]; ok {
			receipts = append(receipts, *r)
		}
	}
	return receipts, nil
}

func (m *MockRepository) DeleteReceipt(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.receipts[id]; !ok {
		return ErrNotFound
	}
	delete(m.receipts, id)
	return nil
}

func (m *MockRepository) AssignReceipt(receiptID string, transactionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.receipts[receiptID]
	if !ok {
		return ErrNotFound
	}
	t, ok := m.transactions[transactionID]
	if !ok {
		return ErrNotFound
	}

	t.ReceiptID = r.ID
	if r.Memo != "" {
		t.Memo = r.Memo
	}
	delete(m.receipts, receiptID)
	return nil
}

func (m *MockRepository) SaveBudgetItem(b *BudgetItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBudgetID++
	b.ID = m.nextBudgetID
	m.budget = append(m.budget, *b)
	return nil
}

func (m *MockRepository) ListBudgetItems(year int) ([]BudgetItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []BudgetItem
	for _, b := range m.budget {
		if b.Timestamp.Year() == year {
			items = append(items, b)
		}
	}
	return items, nil
}

func (m *MockRepository) BudgetItems(year int) ([]reports.Item, error) {
	budget, err := m.ListBudgetItems(year)
	if err != nil {
		return nil, err
	}
	items := make([]reports.Item, len(budget))
	for i, b := range budget {
		items[i] = reports.Item{Amount: b.Amount, Timestamp: b.Timestamp, Category: b.Category}
	}
	return items, nil
}
