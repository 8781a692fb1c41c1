package models

// Requests and responses for the price HTTP endpoints.

type BatchPricesRequest struct {
	Tickers []string `json:"tickers" validate:"required,dive,required"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp"`
}

type PriceResponse struct {
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Timestamp string  `json:"timestamp"`
}

// BatchEntry is either {price, currency} or {error}.
type BatchEntry struct {
	Price    *float64 `json:"price,omitempty"`
	Currency string   `json:"currency,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type BatchPricesResponse struct {
	Prices    map[string]BatchEntry `json:"prices"`
	Timestamp string                `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
