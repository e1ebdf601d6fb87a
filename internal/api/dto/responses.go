package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// TransactionResponse represents a ledger transaction in API responses.
type TransactionResponse struct {
	ID        int64   `json:"id"`
	Payee     string  `json:"payee"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
	Category  string  `json:"category,omitempty"`
	Memo      string  `json:"memo,omitempty"`
	ReceiptID string  `json:"receipt_id,omitempty"`
	AccountID string  `json:"account_id,omitempty"`
}

// TransactionListResponse is returned when listing transactions.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Count        int                   `json:"count"`
	Limit        int                   `json:"limit,omitempty"`
	Offset       int                   `json:"offset,omitempty"`
}

// ReceiptResponse represents a pending receipt, with its match state
// against the unreconciled transactions.
type ReceiptResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name,omitempty"`
	Memo        string               `json:"memo,omitempty"`
	Amount      *float64             `json:"amount,omitempty"`
	Date        string               `json:"date,omitempty"`
	Filename    string               `json:"filename"`
	MatchCount  int                  `json:"match_count"`
	BestScore   int                  `json:"best_score,omitempty"`
	BestMatch   *TransactionResponse `json:"best_match,omitempty"`
	NeedsReview bool                 `json:"needs_review"`
}

// ReceiptListResponse is returned when listing receipts.
type ReceiptListResponse struct {
	Receipts []ReceiptResponse `json:"receipts"`
	Count    int               `json:"count"`
}

// AcceptAllResponse summarizes a bulk acceptance pass.
type AcceptAllResponse struct {
	Assigned    int `json:"assigned"`
	NeedsReview int `json:"needs_review"`
	NoMatch     int `json:"no_match"`
}

// ReportDefinitionResponse describes one available report.
type ReportDefinitionResponse struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ReportDefinitionListResponse is returned when listing reports.
type ReportDefinitionListResponse struct {
	Reports []ReportDefinitionResponse `json:"reports"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
