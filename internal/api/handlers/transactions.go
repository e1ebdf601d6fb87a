package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kwhalen/ledgerline/internal/api/dto"
	"github.com/kwhalen/ledgerline/internal/infrastructure/storage"
)

// TransactionsHandler handles transaction-related HTTP requests.
type TransactionsHandler struct {
	*Base
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(repo storage.Repository) *TransactionsHandler {
	return &TransactionsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/transactions - returns filtered transactions.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.TransactionFilters{
		Year:         ParseIntParam(r, "year", 0),
		Search:       r.URL.Query().Get("search"),
		Unreconciled: ParseBoolParam(r, "unreconciled", false),
		Limit:        ParseIntParam(r, "limit", 100),
		Offset:       ParseIntParam(r, "offset", 0),
	}

	txs, err := h.repo.ListTransactions(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.TransactionListResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(txs)),
		Count:        len(txs),
		Limit:        filters.Limit,
		Offset:       filters.Offset,
	}
	for _, t := range txs {
		response.Transactions = append(response.Transactions, toTransactionResponse(t))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/transactions/{id} - returns one transaction.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("transaction ID must be an integer"))
		return
	}

	t, err := h.repo.GetTransaction(id)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("transaction"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toTransactionResponse(t))
}

// toTransactionResponse converts a storage transaction to an API response.
func toTransactionResponse(t *storage.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:        t.ID,
		Payee:     t.Payee,
		Amount:    t.Amount,
		Timestamp: t.Timestamp.Format(time.RFC3339),
		Category:  t.Category,
		Memo:      t.Memo,
		ReceiptID: t.ReceiptID,
		AccountID: t.AccountID,
	}
}
