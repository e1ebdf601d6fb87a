// Package service wires the domain engines to storage for the receipt
// reconciliation workflows the API and CLIs expose.
package service

import (
	"fmt"
	"log/slog"

	"github.com/kwhalen/ledgerline/internal/domain/matcher"
	"github.com/kwhalen/ledgerline/internal/domain/receipt"
	"github.com/kwhalen/ledgerline/internal/infrastructure/storage"
)

// ReconcileService runs receipt-to-transaction reconciliation over the
// repository.
type ReconcileService struct {
	repo    storage.Repository
	matcher *matcher.Matcher
	clock   receipt.Clock
	logger  *slog.Logger
}

// NewReconcileService creates a reconcile service.
func NewReconcileService(repo storage.Repository, cfg matcher.Config, clock receipt.Clock, logger *slog.Logger) *ReconcileService {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = receipt.SystemClock()
	}
	return &ReconcileService{
		repo:    repo,
		matcher: matcher.New(cfg),
		clock:   clock,
		logger:  logger,
	}
}

// ReceiptMatches is one receipt with its computed match state.
type ReceiptMatches struct {
	Receipt    receipt.Receipt
	MatchCount int
	BestScore  int
	BestMatch  *storage.Transaction // nil when nothing scores above zero
}

// NeedsReview reports whether the receipt is ambiguous: more than one
// plausible transaction, so bulk acceptance will not touch it.
func (rm ReceiptMatches) NeedsReview() bool {
	return rm.MatchCount > 1
}

// AcceptAllResult summarizes a bulk acceptance pass.
type AcceptAllResult struct {
	Assigned    int `json:"assigned"`
	NeedsReview int `json:"needs_review"`
	NoMatch     int `json:"no_match"`
}

// CreateFromFilename parses an uploaded filename into a receipt and
// stores it. Unrecognizable filenames still produce a (mostly empty)
// receipt; they surface as "no suggested match" rather than an error.
func (s *ReconcileService) CreateFromFilename(filename string) (*receipt.Receipt, error) {
	r := receipt.FromFilename(filename, s.clock)
	if err := s.repo.SaveReceipt(&r); err != nil {
		return nil, fmt.Errorf("storing receipt for %q: %w", filename, err)
	}

	s.logger.Info("created receipt",
		"id", r.ID,
		"name", r.Name,
		"has_amount", r.Amount != nil,
		"has_date", r.HasDate())
	return &r, nil
}

// ListWithMatches returns every pending receipt with its match count and
// best candidate, computed against the unreconciled transactions.
func (s *ReconcileService) ListWithMatches() ([]ReceiptMatches, error) {
	receipts, err := s.repo.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	if len(receipts) == 0 {
		return nil, nil
	}

	candidates, err := s.candidates(receipts)
	if err != nil {
		return nil, err
	}

	results := make([]ReceiptMatches, 0, len(receipts))
	for _, r := range receipts {
		rm := ReceiptMatches{Receipt: r}
		for _, t := range candidates {
			score := s.matcher.Score(r, t)
			if score == 0 {
				continue
			}
			rm.MatchCount++
			tx := t.(*storage.Transaction)
			if score > rm.BestScore || (score == rm.BestScore && tx.ID < rm.BestMatch.ID) {
				rm.BestScore = score
				rm.BestMatch = tx
			}
		}
		results = append(results, rm)
	}
	return results, nil
}

// AcceptAll assigns every receipt that has exactly one positive-scoring
// transaction. Receipts with zero or multiple candidates are left for
// human review.
func (s *ReconcileService) AcceptAll() (AcceptAllResult, error) {
	var result AcceptAllResult

	matches, err := s.ListWithMatches()
	if err != nil {
		return result, err
	}

	for _, rm := range matches {
		switch {
		case rm.MatchCount == 0:
			result.NoMatch++
		case rm.MatchCount > 1:
			result.NeedsReview++
		default:
			if err := s.repo.AssignReceipt(rm.Receipt.ID, rm.BestMatch.ID); err != nil {
				return result, fmt.Errorf("assigning receipt %s: %w", rm.Receipt.ID, err)
			}
			result.Assigned++
			s.logger.Info("assigned receipt",
				"receipt", rm.Receipt.ID,
				"transaction", rm.BestMatch.ID,
				"score", rm.BestScore)
		}
	}

	s.logger.Info("accept-all finished",
		"assigned", result.Assigned,
		"needs_review", result.NeedsReview,
		"no_match", result.NoMatch)
	return result, nil
}

// Assign manually attaches a receipt to a transaction. The caller has
// made the choice, so no score threshold applies; only unknown IDs fail.
func (s *ReconcileService) Assign(receiptID string, transactionID int64) error {
	return s.repo.AssignReceipt(receiptID, transactionID)
}

// RankForTransaction orders the pending receipts against one transaction,
// best match first.
func (s *ReconcileService) RankForTransaction(transactionID int64) ([]receipt.Receipt, error) {
	t, err := s.repo.GetTransaction(transactionID)
	if err != nil {
		return nil, err
	}
	receipts, err := s.repo.ListReceipts()
	if err != nil {
		return nil, err
	}
	return s.matcher.RankReceipts(t, receipts), nil
}

// candidates loads the unreconciled transactions and pre-filters them to
// the date neighborhood of the pending receipts.
func (s *ReconcileService) candidates(receipts []receipt.Receipt) ([]matcher.Transaction, error) {
	txs, err := s.repo.ListTransactions(storage.TransactionFilters{Unreconciled: true})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	all := make([]matcher.Transaction, len(txs))
	for i, t := range txs {
		all[i] = t
	}
	return s.matcher.NarrowByDate(all, receipts), nil
}
