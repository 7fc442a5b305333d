package interfaces

import (
	"context"

	"github.com/bobmcallan/vire-tracker/internal/models"
)

// QuoteService owns the live quote cache and its polling schedule
type QuoteService interface {
	StartPolling(ctx context.Context, symbols []string)
	AddSymbols(ctx context.Context, symbols []string)
	StopPolling()
	FetchQuotes(ctx context.Context, symbols []string) map[string]models.Quote
	GetQuote(symbol string) (models.Quote, bool)
	Status() models.QuoteStatus
}

// PortfolioService derives holdings and valuations from the ledger
type PortfolioService interface {
	// Holdings returns the open positions of a portfolio
	Holdings(ctx context.Context, portfolioID string) ([]models.Holding, error)

	// Valuation combines holdings with the latest cached quotes
	Valuation(ctx context.Context, portfolioID string) (*models.PortfolioValuation, error)

	// Import backfills raw rows, stores the valid ones and returns every row
	Import(ctx context.Context, portfolioID string, raws []models.RawTransaction) ([]models.NormalizedTransaction, error)

	// Watch starts quote polling for the portfolio's held symbols
	Watch(ctx context.Context, portfolioID string) ([]string, error)

	// ListPortfolios returns known portfolio IDs
	ListPortfolios(ctx context.Context) ([]string, error)

	// DeletePortfolio removes a portfolio's ledger
	DeletePortfolio(ctx context.Context, portfolioID string) (int, error)
}

// Backfiller normalises imported rows and fills missing prices
type Backfiller interface {
	Backfill(ctx context.Context, raws []models.RawTransaction) []models.NormalizedTransaction
}
