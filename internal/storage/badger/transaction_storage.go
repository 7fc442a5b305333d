package badger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/models"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"
)

// TransactionStorage implements interfaces.TransactionStore using BadgerDB.
type TransactionStorage struct {
	db     *BadgerDB
	logger *common.Logger
	now    func() time.Time
}

// NewTransactionStorage creates a transaction ledger backed by BadgerDB.
func NewTransactionStorage(db *BadgerDB, logger *common.Logger) *TransactionStorage {
	return &TransactionStorage{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// SaveTransactions writes txs in a single Badger transaction. Missing IDs
// and creation times are filled in; existing IDs are overwritten.
func (s *TransactionStorage) SaveTransactions(_ context.Context, txs []models.Transaction) ([]models.Transaction, error) {
	saved := make([]models.Transaction, len(txs))
	created := s.now().UTC()

	for i, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = created
		}
		tx.Symbol = strings.ToUpper(tx.Symbol)
		saved[i] = tx
	}

	store := s.db.Store()
	err := store.Badger().Update(func(txn *badger.Txn) error {
		for i := range saved {
			if err := store.TxUpsert(txn, saved[i].ID, &saved[i]); err != nil {
				return fmt.Errorf("failed to upsert transaction %s: %w", saved[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save transactions: %w", err)
	}

	s.logger.Debug().Int("count", len(saved)).Msg("Transactions saved")
	return saved, nil
}

// ListTransactions returns a portfolio's ledger ordered by date then ID.
// An empty portfolioID lists every portfolio.
func (s *TransactionStorage) ListTransactions(_ context.Context, portfolioID string) ([]models.Transaction, error) {
	var query *badgerhold.Query
	if portfolioID != "" {
		query = badgerhold.Where("PortfolioID").Eq(portfolioID).Index("PortfolioID")
	}

	var txs []models.Transaction
	if err := s.db.Store().Find(&txs, query); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date) {
			return txs[i].Date.Before(txs[j].Date)
		}
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		}
		return txs[i].ID < txs[j].ID
	})
	return txs, nil
}

// ListPortfolios returns the distinct portfolio IDs in the ledger, sorted.
func (s *TransactionStorage) ListPortfolios(_ context.Context) ([]string, error) {
	groups, err := s.db.Store().FindAggregate(&models.Transaction{}, nil, "PortfolioID")
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	ids := make([]string, 0, len(groups))
	for _, g := range groups {
		var id string
		g.Group(&id)
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeletePortfolio removes every transaction of a portfolio and returns how many were removed.
func (s *TransactionStorage) DeletePortfolio(_ context.Context, portfolioID string) (int, error) {
	query := badgerhold.Where("PortfolioID").Eq(portfolioID).Index("PortfolioID")

	n, err := s.db.Store().Count(&models.Transaction{}, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count portfolio %s: %w", portfolioID, err)
	}
	if n == 0 {
		return 0, nil
	}

	if err := s.db.Store().DeleteMatching(&models.Transaction{}, query); err != nil {
		return 0, fmt.Errorf("failed to delete portfolio %s: %w", portfolioID, err)
	}

	s.logger.Info().
		Str("portfolio", portfolioID).
		Int("deleted", int(n)).
		Msg("Portfolio deleted")
	return int(n), nil
}
