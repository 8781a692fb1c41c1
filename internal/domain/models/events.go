package models

import "time"

// LookupEvent describes one completed price lookup. Events are published
// for external observability only; nothing in the service reads them back.
type LookupEvent struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Kind      string    `json:"kind"`   // "single" or "batch"
	Result    string    `json:"result"` // "ok", "not_found" or "error"
	Price     string    `json:"price,omitempty"`
	Currency  string    `json:"currency,omitempty"`
	Error     string    `json:"error,omitempty"`
	Attempts  int       `json:"attempts"`
	Provider  string    `json:"provider"`
	Timestamp time.Time `json:"timestamp"`
}
