// Package interfaces defines service contracts for the tracker
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/models"
)

// QuoteClient provides batched live quotes
type QuoteClient interface {
	// GetQuoteSnapshot retrieves live quotes for symbols. Partial results are
	// allowed: symbols the provider cannot price are simply absent.
	GetQuoteSnapshot(ctx context.Context, symbols []string) (map[string]models.Quote, error)
}

// HistoryClient provides historical closing prices
type HistoryClient interface {
	// GetHistoricalClose returns the close for symbol on date. found is false
	// when the provider has no price, which callers treat as "unknown".
	GetHistoricalClose(ctx context.Context, symbol string, date time.Time) (price float64, found bool, err error)
}
