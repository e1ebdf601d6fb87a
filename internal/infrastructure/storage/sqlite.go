package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kwhalen/ledgerline/internal/domain/receipt"
	"github.com/kwhalen/ledgerline/internal/domain/reports"
)

// Storage provides SQLite database access for transactions, receipts, and
// budget lines. It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time checks.
var (
	_ Repository          = (*Storage)(nil)
	_ reports.QuerySource = (*Storage)(nil)
)

// NewStorage creates a new storage instance with SQLite database.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveTransaction inserts a transaction and sets its ID.
func (s *Storage) SaveTransaction(t *Transaction) error {
	res, err := s.db.Exec(`
	INSERT INTO transactions (payee, amount, timestamp, category, memo, receipt_id, account_id, hash)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Payee,
		t.Amount,
		t.Timestamp,
		nullable(t.Category),
		nullable(t.Memo),
		nullable(t.ReceiptID),
		nullable(t.AccountID),
		nullable(t.Hash),
	)
	if err != nil {
		return fmt.Errorf("saving transaction: %w", err)
	}

	t.ID, err = res.LastInsertId()
	return err
}

// SaveTransactions inserts a batch, skipping content-hash duplicates.
func (s *Storage) SaveTransactions(txs []*Transaction) (int, error) {
	inserted := 0
	for _, t := range txs {
		if t.Hash == "" {
			t.Hash = t.GenerateHash()
		}

		var exists int
		err := s.db.QueryRow("SELECT COUNT(*) FROM transactions WHERE hash = ?", t.Hash).Scan(&exists)
		if err != nil {
			return inserted, err
		}
		if exists > 0 {
			continue
		}

		if err := s.SaveTransaction(t); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

const transactionColumns = `id, payee, amount, timestamp,
	COALESCE(category, ''), COALESCE(memo, ''), COALESCE(receipt_id, ''), COALESCE(account_id, ''), COALESCE(hash, '')`

// GetTransaction retrieves one transaction by ID.
func (s *Storage) GetTransaction(id int64) (*Transaction, error) {
	row := s.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

// ListTransactions returns transactions matching the filters, oldest
// first, ties by ID.
func (s *Storage) ListTransactions(f TransactionFilters) ([]*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := make([]any, 0, 4)

	if f.Year != 0 {
		query += ` AND strftime('%Y', timestamp) = ?`
		args = append(args, fmt.Sprintf("%04d", f.Year))
	}
	if f.Search != "" {
		query += ` AND LOWER(payee) LIKE ?`
		args = append(args, "%"+f.Search+"%")
	}
	if f.Unreconciled {
		query += ` AND (receipt_id IS NULL OR receipt_id = '')`
	}

	query += ` ORDER BY timestamp, id`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// TransactionItems returns the year's transactions as report items.
func (s *Storage) TransactionItems(year int) ([]reports.Item, error) {
	rows, err := s.db.Query(`
	SELECT amount, timestamp, COALESCE(category, '')
	FROM transactions
	WHERE strftime('%Y', timestamp) = ?
	ORDER BY timestamp, id`, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []reports.Item
	for rows.Next() {
		var item reports.Item
		if err := rows.Scan(&item.Amount, &item.Timestamp, &item.Category); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveReceipt inserts a receipt, assigning an ID when empty.
func (s *Storage) SaveReceipt(r *receipt.Receipt) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	var amount any
	if r.Amount != nil {
		amount = *r.Amount
	}
	var timestamp any
	if r.HasDate() {
		timestamp = r.Timestamp
	}

	_, err := s.db.Exec(`
	INSERT INTO receipts (id, name, memo, amount, timestamp, filename)
	VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID,
		nullable(r.Name),
		nullable(r.Memo),
		amount,
		timestamp,
		r.Filename,
	)
	if err != nil {
		return fmt.Errorf("saving receipt: %w", err)
	}
	return nil
}

// GetReceipt retrieves one receipt by ID.
func (s *Storage) GetReceipt(id string) (*receipt.Receipt, error) {
	row := s.db.QueryRow(`
	SELECT id, COALESCE(name, ''), COALESCE(memo, ''), amount, timestamp, filename, created_at
	FROM receipts WHERE id = ?`, id)
	r, err := scanReceipt(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return r, err
}

// ListReceipts returns all unassigned receipts, oldest first.
func (s *Storage) ListReceipts() ([]receipt.Receipt, error) {
	rows, err := s.db.Query(`
	SELECT id, COALESCE(name, ''), COALESCE(memo, ''), amount, timestamp, filename, created_at
	FROM receipts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []receipt.Receipt
	for rows.Next() {
		r, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, *r)
	}
	return receipts, rows.Err()
}

// DeleteReceipt removes a receipt without assigning it.
func (s *Storage) DeleteReceipt(id string) error {
	res, err := s.db.Exec("DELETE FROM receipts WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignReceipt attaches a receipt to a transaction and consumes the
// receipt. The receipt's memo is copied onto the transaction when the
// receipt carries one. Atomic.
func (s *Storage) AssignReceipt(receiptID string, transactionID int64) error {
	r, err := s.GetReceipt(receiptID)
	if err != nil {
		return fmt.Errorf("receipt %s: %w", receiptID, err)
	}
	if _, err := s.GetTransaction(transactionID); err != nil {
		return fmt.Errorf("transaction %d: %w", transactionID, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if r.Memo != "" {
		_, err = tx.Exec("UPDATE transactions SET receipt_id = ?, memo = ? WHERE id = ?",
			r.ID, r.Memo, transactionID)
	} else {
		_, err = tx.Exec("UPDATE transactions SET receipt_id = ? WHERE id = ?",
			r.ID, transactionID)
	}
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("assigning receipt: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM receipts WHERE id = ?", r.ID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("consuming receipt: %w", err)
	}

	return tx.Commit()
}

// SaveBudgetItem inserts a budget line and sets its ID.
func (s *Storage) SaveBudgetItem(b *BudgetItem) error {
	res, err := s.db.Exec(`
	INSERT INTO budget_items (category, amount, timestamp) VALUES (?, ?, ?)`,
		b.Category, b.Amount, b.Timestamp)
	if err != nil {
		return fmt.Errorf("saving budget item: %w", err)
	}
	b.ID, err = res.LastInsertId()
	return err
}

// ListBudgetItems returns the year's budget lines.
func (s *Storage) ListBudgetItems(year int) ([]BudgetItem, error) {
	rows, err := s.db.Query(`
	SELECT id, category, amount, timestamp
	FROM budget_items
	WHERE strftime('%Y', timestamp) = ?
	ORDER BY category, id`, fmt.Sprintf("%04d", year))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BudgetItem
	for rows.Next() {
		var b BudgetItem
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.Timestamp); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// BudgetItems returns the year's budget lines as report items.
func (s *Storage) BudgetItems(year int) ([]reports.Item, error) {
	budget, err := s.ListBudgetItems(year)
	if err != nil {
		return nil, err
	}

	items := make([]reports.Item, len(budget))
	for i, b := range budget {
		items[i] = reports.Item{
			Amount:    b.Amount,
			Timestamp: b.Timestamp,
			Category:  b.Category,
		}
	}
	return items, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*Transaction, error) {
	t := &Transaction{}
	err := row.Scan(
		&t.ID,
		&t.Payee,
		&t.Amount,
		&t.Timestamp,
		&t.Category,
		&t.Memo,
		&t.ReceiptID,
		&t.AccountID,
		&t.Hash,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func scanReceipt(row scanner) (*receipt.Receipt, error) {
	r := &receipt.Receipt{}
	var amount sql.NullFloat64
	var timestamp sql.NullTime
	err := row.Scan(
		&r.ID,
		&r.Name,
		&r.Memo,
		&amount,
		&timestamp,
		&r.Filename,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		r.Amount = &amount.Float64
	}
	if timestamp.Valid {
		r.Timestamp = timestamp.Time
	}
	return r, nil
}

// nullable maps empty strings to NULL so partial unique indexes and
// COALESCE reads behave.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
