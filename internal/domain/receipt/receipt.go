// Package receipt provides the receipt model and filename parsing.
//
// Receipts usually enter the system as uploaded image files whose names
// encode the interesting fields, e.g.:
//
//	"Uptown Espresso $5.11 1-2 (drip).png"
//
// which parses to Name "Uptown Espresso", Amount 5.11, a January 2nd
// timestamp, and Memo "drip". Parsing is best-effort: a filename with no
// recognizable tokens produces an empty receipt, not an error.
package receipt

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Receipt is a purchase record awaiting association with a transaction.
type Receipt struct {
	ID        string
	Name      string     // extracted payee-like string, "" if none
	Memo      string     // free text, "" if none
	Amount    *float64   // nil when the filename carried no amount
	Timestamp time.Time  // zero when the filename carried no date
	Filename  string     // original upload name
	CreatedAt time.Time
}

// HasDate reports whether a date was recognized for this receipt.
func (r Receipt) HasDate() bool {
	return !r.Timestamp.IsZero()
}

var (
	amountPattern = regexp.MustCompile(`^\$(\d+(?:\.\d+)?)$`)
	datePattern   = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})$`)
)

// FromFilename parses an uploaded filename into a Receipt.
//
// Recognized tokens, in extraction order: a "$1.23" amount, a "(...)"
// parenthesized memo, and an "m-d" month-day date. Whatever remains, in its
// original relative order, becomes the name. The date's year is inferred
// from the clock: a month-day that would land in the future belongs to last
// year, since receipts are dated in the recent past.
func FromFilename(filename string, clock Clock) Receipt {
	r := Receipt{Filename: filename}

	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	tokens := strings.Fields(base)

	tokens = extractAmount(tokens, &r)
	tokens = extractMemo(tokens, &r)
	tokens = extractDate(tokens, &r, clock)

	r.Name = strings.Join(tokens, " ")
	return r
}

// extractAmount removes the first "$<number>" token and records it.
func extractAmount(tokens []string, r *Receipt) []string {
	for i, tok := range tokens {
		m := amountPattern.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		r.Amount = &v
		return append(tokens[:i:i], tokens[i+1:]...)
	}
	return tokens
}

// extractMemo removes a parenthesized run of tokens and records it.
// The memo may span multiple tokens: "(lunch with team)".
func extractMemo(tokens []string, r *Receipt) []string {
	start := -1
	for i, tok := range tokens {
		if strings.HasPrefix(tok, "(") {
			start = i
			break
		}
	}
	if start < 0 {
		return tokens
	}
	for end := start; end < len(tokens); end++ {
		if !strings.HasSuffix(tokens[end], ")") {
			continue
		}
		memo := strings.Join(tokens[start:end+1], " ")
		memo = strings.TrimPrefix(memo, "(")
		memo = strings.TrimSuffix(memo, ")")
		r.Memo = memo
		return append(tokens[:start:start], tokens[end+1:]...)
	}
	// Unbalanced parenthesis: leave the tokens for the name.
	return tokens
}

// extractDate removes the first "m-d" token and records a full date,
// inferring the year from the clock.
func extractDate(tokens []string, r *Receipt, clock Clock) []string {
	for i, tok := range tokens {
		m := datePattern.FindStringSubmatch(tok)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}

		now := clock.Now()
		ts := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if ts.After(now) {
			ts = time.Date(now.Year()-1, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
		r.Timestamp = ts
		return append(tokens[:i:i], tokens[i+1:]...)
	}
	return tokens
}
