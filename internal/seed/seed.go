// Package seed loads a demo portfolio into a fresh dev ledger.
package seed

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/importer"
	"github.com/bobmcallan/vire-tracker/internal/models"
)

const (
	// DemoPortfolioID is the portfolio the demo ledger is imported into.
	DemoPortfolioID      = "demo"
	transactionsFileName = "import/transactions.json"
)

// Ledger is the part of the portfolio service seeding needs.
type Ledger interface {
	importer.Importer
	ListPortfolios(ctx context.Context) ([]string, error)
}

// DemoPortfolio imports import/transactions.json into the demo portfolio
// unless it already exists. Non-fatal: problems are logged and seeding is
// skipped. Returns the number of rows stored.
func DemoPortfolio(ctx context.Context, ledger Ledger, logger *common.Logger) int {
	path := findTransactionsFile()
	if path == "" {
		logger.Warn().Msg("seed: import/transactions.json not found, skipping demo portfolio")
		return 0
	}
	return fromFile(ctx, ledger, logger, path)
}

func fromFile(ctx context.Context, ledger Ledger, logger *common.Logger, path string) int {
	ids, err := ledger.ListPortfolios(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("seed: failed to list portfolios, skipping demo portfolio")
		return 0
	}
	if slices.Contains(ids, DemoPortfolioID) {
		logger.Debug().Msg("seed: demo portfolio already present")
		return 0
	}

	rows, err := importer.ImportFile(ctx, ledger, logger, DemoPortfolioID, path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("seed: failed to import demo portfolio")
		return 0
	}
	return countValid(rows)
}

func countValid(rows []models.NormalizedTransaction) int {
	n := 0
	for _, r := range rows {
		if r.Valid {
			n++
		}
	}
	return n
}

// findTransactionsFile searches for import/transactions.json relative to the
// executable directory first, then falls back to the current working directory.
func findTransactionsFile() string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), transactionsFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if _, err := os.Stat(transactionsFileName); err == nil {
		return transactionsFileName
	}

	return ""
}
