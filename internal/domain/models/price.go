package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one row of a daily price series. Series are ordered oldest first.
type PriceBar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// NormalizeSymbol upper-cases a ticker. No other validation is applied.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(s)
}

// OutcomeKind classifies the terminal result of a retried fetch.
type OutcomeKind string

const (
	OutcomeSuccess  OutcomeKind = "success"
	OutcomeNotFound OutcomeKind = "not_found" // upstream kept returning an empty series
	OutcomeFailed   OutcomeKind = "failed"    // last attempt errored
)

// FetchOutcome is the detailed result of a retried fetch.
// Bars is non-empty only when Kind is OutcomeSuccess.
type FetchOutcome struct {
	Symbol   string
	Kind     OutcomeKind
	Bars     []PriceBar
	Attempts int
	Err      error
}

// Found reports whether usable data was obtained.
func (o FetchOutcome) Found() bool {
	return o.Kind == OutcomeSuccess && len(o.Bars) > 0
}

// PriceResult is the outcome of looking up a single symbol.
// Exactly one of Price (with Found=true) or Error is meaningful.
type PriceResult struct {
	Symbol   string
	Price    decimal.Decimal
	Currency string
	Found    bool
	Error    string
}

// BatchResult maps normalized symbols to their lookup results.
type BatchResult struct {
	Prices map[string]PriceResult
	Order  []string // normalized symbols in first-seen request order
}
