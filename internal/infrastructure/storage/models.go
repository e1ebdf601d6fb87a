package storage

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction is a ledger entry with payee, amount, date, and a
// colon-delimited hierarchical category.
type Transaction struct {
	ID        int64     `json:"id"`
	Payee     string    `json:"payee"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category,omitempty"`
	Memo      string    `json:"memo,omitempty"`
	ReceiptID string    `json:"receipt_id,omitempty"` // set once a receipt is assigned
	AccountID string    `json:"account_id,omitempty"`
	Hash      string    `json:"-"` // content hash for import dedup
}

// The matcher scores transactions through this view.

func (t *Transaction) GetID() int64       { return t.ID }
func (t *Transaction) GetPayee() string   { return t.Payee }
func (t *Transaction) GetAmount() float64 { return t.Amount }
func (t *Transaction) GetDate() time.Time { return t.Timestamp }

// GenerateHash creates a content hash for duplicate detection across
// repeated imports of overlapping statements.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Timestamp.Format("2006-01-02"),
		t.Amount,
		t.Payee,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// BudgetItem is one budget line. Its category may carry the collector
// moniker syntax understood by the report engine.
type BudgetItem struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}
