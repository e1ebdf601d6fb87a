package storage

import (
	"errors"

	"github.com/kwhalen/ledgerline/internal/domain/receipt"
	"github.com/kwhalen/ledgerline/internal/domain/reports"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository defines the complete storage interface. The split allows
// swapping implementations and makes testing with the in-memory mock
// straightforward. It also satisfies reports.QuerySource.
type Repository interface {
	TransactionRepository
	ReceiptRepository
	BudgetRepository
	Close() error
}

// TransactionFilters narrows ListTransactions results.
type TransactionFilters struct {
	Year         int    // 0 = all years
	Search       string // case-insensitive payee substring
	Unreconciled bool   // only transactions without an assigned receipt
	Limit        int    // 0 = no limit
	Offset       int
}

// TransactionRepository handles ledger transactions.
type TransactionRepository interface {
	// SaveTransaction inserts a transaction and sets its ID.
	SaveTransaction(t *Transaction) error

	// SaveTransactions inserts a batch, skipping content-hash duplicates.
	// Returns the number actually inserted.
	SaveTransactions(txs []*Transaction) (int, error)

	// GetTransaction retrieves one transaction by ID.
	GetTransaction(id int64) (*Transaction, error)

	// ListTransactions returns transactions matching the filters, oldest
	// first, ties by ID.
	ListTransactions(f TransactionFilters) ([]*Transaction, error)

	// TransactionItems returns the year's transactions as report items.
	TransactionItems(year int) ([]reports.Item, error)
}

// ReceiptRepository handles receipts awaiting reconciliation.
type ReceiptRepository interface {
	// SaveReceipt inserts a receipt, assigning an ID when empty.
	SaveReceipt(r *receipt.Receipt) error

	// GetReceipt retrieves one receipt by ID.
	GetReceipt(id string) (*receipt.Receipt, error)

	// ListReceipts returns all unassigned receipts, oldest first.
	ListReceipts() ([]receipt.Receipt, error)

	// DeleteReceipt removes a receipt without assigning it.
	DeleteReceipt(id string) error

	// AssignReceipt attaches a receipt to a transaction: the receipt
	// reference is recorded on the transaction, the receipt's memo is
	// copied over when the receipt carries one, and the receipt is
	// consumed. Atomic.
	AssignReceipt(receiptID string, transactionID int64) error
}

// BudgetRepository handles budget lines.
type BudgetRepository interface {
	// SaveBudgetItem inserts a budget line and sets its ID.
	SaveBudgetItem(b *BudgetItem) error

	// ListBudgetItems returns the year's budget lines.
	ListBudgetItems(year int) ([]BudgetItem, error)

	// BudgetItems returns the year's budget lines as report items.
	BudgetItems(year int) ([]reports.Item, error)
}
