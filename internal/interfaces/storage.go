package interfaces

import (
	"context"
	"errors"

	"github.com/bobmcallan/vire-tracker/internal/models"
)

// ErrNotFound is returned when a stored record does not exist.
var ErrNotFound = errors.New("not found")

// StorageManager provides access to domain-specific storage interfaces.
// Implementations can be swapped (BadgerDB now, centralised DB later).
type StorageManager interface {
	TransactionStore() TransactionStore
	Close() error
}

// TransactionStore persists the transaction ledger.
type TransactionStore interface {
	// SaveTransactions stores transactions, assigning IDs where missing.
	SaveTransactions(ctx context.Context, txs []models.Transaction) ([]models.Transaction, error)

	// ListTransactions returns every transaction of a portfolio ordered by date.
	// An empty portfolioID returns all portfolios.
	ListTransactions(ctx context.Context, portfolioID string) ([]models.Transaction, error)

	// ListPortfolios returns the distinct portfolio IDs present in the ledger.
	ListPortfolios(ctx context.Context) ([]string, error)

	// DeletePortfolio removes all transactions of a portfolio.
	DeletePortfolio(ctx context.Context, portfolioID string) (int, error)
}
