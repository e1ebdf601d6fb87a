// Package matcher scores how well receipts correspond to ledger
// transactions and ranks candidates for reconciliation.
//
// A match score is the sum of three contributions:
//   - payee name containing the receipt name (or vice versa), case
//     insensitive: 100 points
//   - amounts equal in absolute value (a receipt charge matches either a
//     debit or a credit record): 100 points
//   - dates within the window: 100 points on the same day, decaying one
//     point per day of offset
//
// A date match alone is never enough, and a date outside the window kills
// the match entirely. Example totals: same day + exact amount = 200,
// seven days off + exact amount = 193, add a name match for +100.
package matcher

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kwhalen/ledgerline/internal/domain/receipt"
)

// Matcher scores receipts against transactions.
type Matcher struct {
	config Config
}

// New creates a matcher with the given config.
func New(config Config) *Matcher {
	return &Matcher{config: config}
}

// Score computes the match score for one receipt/transaction pair.
// Returns 0 for a nil transaction. Never negative.
func (m *Matcher) Score(r receipt.Receipt, t Transaction) int {
	if t == nil {
		return 0
	}

	score := 0

	if r.Name != "" && t.GetPayee() != "" {
		payee := strings.ToLower(t.GetPayee())
		name := strings.ToLower(r.Name)
		if strings.Contains(payee, name) || strings.Contains(name, payee) {
			score += 100
		}
	}

	if r.Amount != nil {
		diff := math.Abs(math.Abs(t.GetAmount()) - math.Abs(*r.Amount))
		if diff <= m.config.AmountTolerance {
			score += 100
		}
	}

	if r.HasDate() {
		offset := math.Abs(t.GetDate().Sub(r.Timestamp).Hours() / 24)
		if offset >= float64(m.config.DateWindowDays) {
			// Too far apart in time to be the same purchase, no matter
			// how well the name and amount agree.
			return 0
		}
		if score > 0 {
			// Linear decay: same day 100, one point per day of offset.
			score += 100 - int(offset)
		}
	}

	return score
}

// FindBestMatch returns the transaction with the highest positive score,
// or nil if nothing scores above zero. Ties go to the lower transaction
// ID so results are deterministic.
func (m *Matcher) FindBestMatch(r receipt.Receipt, txs []Transaction) Transaction {
	var best Transaction
	bestScore := 0

	for _, t := range txs {
		score := m.Score(r, t)
		if score == 0 {
			continue
		}
		if score > bestScore || (score == bestScore && t.GetID() < best.GetID()) {
			best = t
			bestScore = score
		}
	}

	return best
}

// MatchCount returns how many transactions score above zero for the
// receipt. A count above one means the receipt needs human review.
func (m *Matcher) MatchCount(r receipt.Receipt, txs []Transaction) int {
	count := 0
	for _, t := range txs {
		if m.Score(r, t) > 0 {
			count++
		}
	}
	return count
}

// RankReceipts orders the positive-scoring receipts for a transaction,
// best first. Ties break on receipt ID.
func (m *Matcher) RankReceipts(t Transaction, receipts []receipt.Receipt) []receipt.Receipt {
	type scored struct {
		r     receipt.Receipt
		score int
	}

	ranked := make([]scored, 0, len(receipts))
	for _, r := range receipts {
		if score := m.Score(r, t); score > 0 {
			ranked = append(ranked, scored{r: r, score: score})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].r.ID < ranked[j].r.ID
	})

	result := make([]receipt.Receipt, len(ranked))
	for i, s := range ranked {
		result[i] = s.r
	}
	return result
}

// NarrowByDate pre-filters a transaction set down to those within the
// narrow window of any receipt's date, to bound the cost of exact scoring
// over large ledgers. Receipts without dates keep every transaction, since
// they may still match on name or amount.
func (m *Matcher) NarrowByDate(txs []Transaction, receipts []receipt.Receipt) []Transaction {
	for _, r := range receipts {
		if !r.HasDate() {
			return txs
		}
	}

	window := time.Duration(m.config.NarrowWindowDays) * 24 * time.Hour

	kept := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		for _, r := range receipts {
			delta := t.GetDate().Sub(r.Timestamp)
			if delta < 0 {
				delta = -delta
			}
			if delta <= window {
				kept = append(kept, t)
				break
			}
		}
	}
	return kept
}
