package models

import "time"

// Quote is a live price snapshot for a symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_p"`
	Currency      string    `json:"currency,omitempty"`
	MarketState   string    `json:"market_state,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// QuoteStatus is the scheduler's externally visible state.
type QuoteStatus struct {
	Symbols      []string         `json:"symbols"`
	Quotes       map[string]Quote `json:"quotes"`
	LastUpdated  time.Time        `json:"last_updated"`
	Loading      bool             `json:"loading"`
	Polling      bool             `json:"polling"`
	IntervalSecs int              `json:"interval_seconds"`
	Error        string           `json:"error,omitempty"`
}
