// Package portfolio derives holdings and valuations from the stored ledger.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/holdings"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/bobmcallan/vire-tracker/internal/models"
	"github.com/bobmcallan/vire-tracker/internal/valuation"
)

// ErrInvalidPortfolio is returned for an empty portfolio ID.
var ErrInvalidPortfolio = errors.New("portfolio ID is required")

// Service implements PortfolioService
type Service struct {
	store    interfaces.TransactionStore
	quotes   interfaces.QuoteService
	backfill interfaces.Backfiller
	logger   *common.Logger
	now      func() time.Time
}

var _ interfaces.PortfolioService = (*Service)(nil)

// NewService creates a new portfolio service
func NewService(
	store interfaces.TransactionStore,
	quotes interfaces.QuoteService,
	backfill interfaces.Backfiller,
	logger *common.Logger,
) *Service {
	return &Service{
		store:    store,
		quotes:   quotes,
		backfill: backfill,
		logger:   logger,
		now:      time.Now,
	}
}

// Holdings returns the open positions of a portfolio.
func (s *Service) Holdings(ctx context.Context, portfolioID string) ([]models.Holding, error) {
	if portfolioID == "" {
		return nil, ErrInvalidPortfolio
	}

	txs, err := s.store.ListTransactions(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	res := holdings.Accumulate(txs, portfolioID)

	for _, tx := range res.Quarantined {
		s.logger.Warn().
			Str("portfolio", portfolioID).
			Str("transaction", tx.ID).
			Str("kind", string(tx.Kind)).
			Msg("Transaction with unknown kind ignored")
	}
	for _, key := range res.Oversold {
		s.logger.Warn().
			Str("portfolio", key.PortfolioID).
			Str("asset", key.AssetID).
			Msg("Oversold position in ledger, residual quantity dropped")
	}

	if res.Holdings == nil {
		return []models.Holding{}, nil
	}
	return res.Holdings, nil
}

// Valuation combines holdings with the cached quotes. Symbols never fetched
// are fetched once on demand; anything still unpriced is carried at cost.
func (s *Service) Valuation(ctx context.Context, portfolioID string) (*models.PortfolioValuation, error) {
	hs, err := s.Holdings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	var unfetched []string
	for _, sym := range holdings.Symbols(hs) {
		if _, ok := s.quotes.GetQuote(sym); !ok {
			unfetched = append(unfetched, sym)
		}
	}
	if len(unfetched) > 0 {
		s.quotes.FetchQuotes(ctx, unfetched)
	}

	status := s.quotes.Status()
	summary, missing := valuation.Value(hs, status.Quotes)

	ttl := 2 * time.Duration(status.IntervalSecs) * time.Second
	stale := len(hs) > 0 && !common.IsFreshAt(status.LastUpdated, ttl, s.now())

	return &models.PortfolioValuation{
		PortfolioID:     portfolioID,
		Summary:         summary,
		Holdings:        hs,
		MissingQuotes:   missing,
		QuotesUpdatedAt: status.LastUpdated,
		Stale:           stale,
	}, nil
}

// Import backfills raw rows, stores the valid ones and returns every row.
// Rows whose type is not a known kind are returned invalid and not stored.
func (s *Service) Import(ctx context.Context, portfolioID string, raws []models.RawTransaction) ([]models.NormalizedTransaction, error) {
	if portfolioID == "" {
		return nil, ErrInvalidPortfolio
	}

	start := s.now()
	rows := s.backfill.Backfill(ctx, raws)

	var txs []models.Transaction
	for i := range rows {
		row := &rows[i]
		if !row.Valid {
			continue
		}
		kind, err := models.ParseKind(row.Type)
		if err != nil {
			row.Valid = false
			row.Error = models.ErrUnknownType
			continue
		}
		date, err := time.Parse(models.DateLayout, row.Date)
		if err != nil {
			row.Valid = false
			row.Error = models.ErrInvalidDate
			continue
		}
		txs = append(txs, models.Transaction{
			ID:           row.ID,
			PortfolioID:  portfolioID,
			AssetID:      row.Symbol,
			Symbol:       row.Symbol,
			Name:         row.Name,
			Kind:         kind,
			Quantity:     row.Quantity,
			PricePerUnit: row.Price,
			Fees:         row.Fees,
			Date:         date,
		})
	}

	if len(txs) > 0 {
		if _, err := s.store.SaveTransactions(ctx, txs); err != nil {
			return nil, fmt.Errorf("failed to store imported transactions: %w", err)
		}
	}

	s.logger.Info().
		Str("portfolio", portfolioID).
		Int("rows", len(rows)).
		Int("stored", len(txs)).
		Dur("elapsed", s.now().Sub(start)).
		Msg("Import complete")

	return rows, nil
}

// Watch adds the portfolio's held symbols to the polling set.
func (s *Service) Watch(ctx context.Context, portfolioID string) ([]string, error) {
	hs, err := s.Holdings(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	symbols := holdings.Symbols(hs)
	if len(symbols) == 0 {
		return []string{}, nil
	}
	s.quotes.AddSymbols(ctx, symbols)

	s.logger.Info().
		Str("portfolio", portfolioID).
		Str("symbols", strings.Join(symbols, ",")).
		Msg("Watching portfolio symbols")
	return symbols, nil
}

// ListPortfolios returns known portfolio IDs.
func (s *Service) ListPortfolios(ctx context.Context) ([]string, error) {
	ids, err := s.store.ListPortfolios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	return ids, nil
}

// DeletePortfolio removes a portfolio's ledger.
func (s *Service) DeletePortfolio(ctx context.Context, portfolioID string) (int, error) {
	if portfolioID == "" {
		return 0, ErrInvalidPortfolio
	}
	n, err := s.store.DeletePortfolio(ctx, portfolioID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("portfolio %s: %w", portfolioID, interfaces.ErrNotFound)
	}
	return n, nil
}
