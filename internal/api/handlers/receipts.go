package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kwhalen/ledgerline/internal/api/dto"
	"github.com/kwhalen/ledgerline/internal/application/service"
	"github.com/kwhalen/ledgerline/internal/infrastructure/storage"
)

// ReceiptsHandler handles receipt-related HTTP requests.
type ReceiptsHandler struct {
	*Base
	reconcile *service.ReconcileService
}

// NewReceiptsHandler creates a new receipts handler.
func NewReceiptsHandler(repo storage.Repository, reconcile *service.ReconcileService) *ReceiptsHandler {
	return &ReceiptsHandler{
		Base:      NewBase(repo),
		reconcile: reconcile,
	}
}

// List handles GET /api/receipts - returns pending receipts with their
// match state.
func (h *ReceiptsHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.reconcile.ListWithMatches()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.ReceiptListResponse{
		Receipts: make([]dto.ReceiptResponse, 0, len(matches)),
		Count:    len(matches),
	}
	for _, rm := range matches {
		response.Receipts = append(response.Receipts, toReceiptResponse(rm))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Create handles POST /api/receipts - registers a receipt from its
// uploaded filename.
func (h *ReceiptsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid JSON body"))
		return
	}
	if req.Filename == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("filename is required"))
		return
	}

	created, err := h.reconcile.CreateFromFilename(req.Filename)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusCreated, toReceiptResponse(service.ReceiptMatches{Receipt: *created}))
}

// Delete handles DELETE /api/receipts/{id} - discards a receipt without
// assigning it.
func (h *ReceiptsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("receipt ID is required"))
		return
	}

	err := h.repo.DeleteReceipt(id)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("receipt"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AcceptAll handles POST /api/receipts/accept-all - assigns every
// receipt with exactly one plausible transaction.
func (h *ReceiptsHandler) AcceptAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconcile.AcceptAll()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.AcceptAllResponse{
		Assigned:    result.Assigned,
		NeedsReview: result.NeedsReview,
		NoMatch:     result.NoMatch,
	})
}

// Assign handles POST /api/receipts/{id}/assign/{txID} - manually
// attaches a receipt to a transaction.
func (h *ReceiptsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	receiptID := chi.URLParam(r, "id")
	txID, err := strconv.ParseInt(chi.URLParam(r, "txID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("transaction ID must be an integer"))
		return
	}

	err = h.reconcile.Assign(receiptID, txID)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("receipt or transaction"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// toReceiptResponse converts a receipt with match state to an API response.
func toReceiptResponse(rm service.ReceiptMatches) dto.ReceiptResponse {
	resp := dto.ReceiptResponse{
		ID:          rm.Receipt.ID,
		Name:        rm.Receipt.Name,
		Memo:        rm.Receipt.Memo,
		Amount:      rm.Receipt.Amount,
		Filename:    rm.Receipt.Filename,
		MatchCount:  rm.MatchCount,
		BestScore:   rm.BestScore,
		NeedsReview: rm.NeedsReview(),
	}
	if rm.Receipt.HasDate() {
		resp.Date = rm.Receipt.Timestamp.Format("2006-01-02")
	}
	if rm.BestMatch != nil {
		best := toTransactionResponse(rm.BestMatch)
		resp.BestMatch = &best
	}
	return resp
}
