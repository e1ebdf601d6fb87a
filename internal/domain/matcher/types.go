package matcher

import "time"

// Transaction is the ledger-side view the matcher needs. The storage
// model implements it; tests use small fakes.
type Transaction interface {
	GetID() int64
	GetPayee() string
	GetAmount() float64
	GetDate() time.Time
}

// Config holds matcher tuning.
type Config struct {
	DateWindowDays   int     // scoring window; offsets at or past this kill the match
	NarrowWindowDays int     // pre-filter window for NarrowByDate
	AmountTolerance  float64 // absolute amount comparison slack
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		DateWindowDays:   14,
		NarrowWindowDays: 13,
		AmountTolerance:  0.005,
	}
}
