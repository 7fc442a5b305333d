// Package importer reads transaction files and feeds them through the
// portfolio import pipeline.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/models"
)

// Importer is the part of the portfolio service an import needs.
type Importer interface {
	Import(ctx context.Context, portfolioID string, raws []models.RawTransaction) ([]models.NormalizedTransaction, error)
}

// transactionsFile represents the wrapped JSON structure of an import file.
type transactionsFile struct {
	Transactions []models.RawTransaction `json:"transactions"`
}

// ReadTransactions reads raw rows from a JSON file holding either a bare
// array or {"transactions": [...]}.
func ReadTransactions(jsonPath string) ([]models.RawTransaction, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions file %s: %w", jsonPath, err)
	}
	return ParseTransactions(data)
}

// ParseTransactions decodes either accepted file shape.
func ParseTransactions(data []byte) ([]models.RawTransaction, error) {
	var raws []models.RawTransaction
	if err := json.Unmarshal(data, &raws); err == nil {
		return raws, nil
	}

	var file transactionsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}
	return file.Transactions, nil
}

// ImportFile reads jsonPath and imports it into portfolioID.
// Returns every backfilled row, valid or not.
func ImportFile(ctx context.Context, svc Importer, logger *common.Logger, portfolioID, jsonPath string) ([]models.NormalizedTransaction, error) {
	raws, err := ReadTransactions(jsonPath)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		logger.Warn().Str("path", jsonPath).Msg("transactions file is empty, nothing to import")
		return nil, nil
	}

	rows, err := svc.Import(ctx, portfolioID, raws)
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", jsonPath, err)
	}

	invalid := 0
	for _, r := range rows {
		if !r.Valid {
			invalid++
			logger.Debug().
				Str("symbol", r.Symbol).
				Str("date", r.Date).
				Str("reason", r.Error).
				Msg("import row rejected")
		}
	}
	logger.Info().
		Str("portfolio", portfolioID).
		Str("path", jsonPath).
		Int("rows", len(rows)).
		Int("invalid", invalid).
		Msg("transactions imported")

	return rows, nil
}
