// Package backfill normalises imported transaction rows and fills missing
// prices from a historical-close provider.
package backfill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/bobmcallan/vire-tracker/internal/models"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultBatchSize bounds the number of outstanding provider lookups.
const DefaultBatchSize = 10

// Memo lifetimes. A close that was found does not change; an unknown one may
// be published later in the day.
const (
	knownTTL        = 24 * time.Hour
	unknownTTL      = 15 * time.Minute
	cleanupInterval = time.Hour
)

type closeResult struct {
	price float64
	found bool
}

// Batcher backfills prices for imported rows.
type Batcher struct {
	history   interfaces.HistoryClient
	logger    *common.Logger
	batchSize int
	now       func() time.Time
	memo      *cache.Cache
	group     singleflight.Group
}

// Option configures a Batcher.
type Option func(*Batcher)

// WithBatchSize overrides the batch size (values < 1 are ignored).
func WithBatchSize(n int) Option {
	return func(b *Batcher) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithNow sets the clock used to default missing dates.
func WithNow(now func() time.Time) Option { return func(b *Batcher) { b.now = now } }

// NewBatcher creates a Batcher with an empty memo.
func NewBatcher(history interfaces.HistoryClient, logger *common.Logger, opts ...Option) *Batcher {
	b := &Batcher{
		history:   history,
		logger:    logger,
		batchSize: DefaultBatchSize,
		now:       time.Now,
		memo:      cache.New(knownTTL, cleanupInterval),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Backfill normalises raws in batches. Lookups run concurrently within a
// batch and batches run one after another. Output order matches input order.
// Row defects are reported per row and never returned as an error.
func (b *Batcher) Backfill(ctx context.Context, raws []models.RawTransaction) []models.NormalizedTransaction {
	out := make([]models.NormalizedTransaction, len(raws))
	today := b.now().Format(models.DateLayout)

	for start := 0; start < len(raws); start += b.batchSize {
		end := min(start+b.batchSize, len(raws))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				out[i] = b.normalize(ctx, raws[i], today)
				return nil
			})
		}
		// rows never fail; Wait only sequences the batches
		_ = g.Wait()

		b.logger.Debug().
			Int("from", start).
			Int("to", end).
			Msg("Backfill batch complete")
	}
	return out
}

func (b *Batcher) normalize(ctx context.Context, raw models.RawTransaction, today string) models.NormalizedTransaction {
	row := models.NormalizedTransaction{
		ID:       uuid.NewString(),
		Symbol:   strings.ToUpper(strings.TrimSpace(raw.Symbol)),
		Type:     normalizeType(raw.Type),
		Name:     raw.Name,
		Quantity: raw.Quantity,
		Date:     today,
	}

	var date time.Time
	if strings.TrimSpace(raw.Date) != "" {
		if d, ok := parseDate(raw.Date); ok {
			date = d
			row.Date = d.Format(models.DateLayout)
		} else {
			row.Date = raw.Date
		}
	} else {
		date, _ = time.Parse(models.DateLayout, today)
	}

	if raw.Fees != nil {
		row.Fees = *raw.Fees
	}

	if raw.Price != nil {
		row.Price = *raw.Price
	} else if row.Symbol != "" && !date.IsZero() {
		row.Price = b.lookup(ctx, row.Symbol, date)
	}

	if raw.Total != nil {
		row.Total = *raw.Total
	} else {
		row.Total = row.Price*row.Quantity + row.Fees
	}

	switch {
	case row.Symbol == "":
		row.Error = models.ErrMissingSymbol
	case row.Quantity <= 0:
		row.Error = models.ErrInvalidQuantity
	case raw.Price == nil && date.IsZero():
		// no lookup was possible without a date
		row.Error = models.ErrInvalidDate
	case row.Price <= 0:
		row.Error = models.ErrPriceNotFound
	}
	row.Valid = row.Error == ""
	return row
}

// lookup returns the memoised close for (symbol, date), or 0 when unknown.
func (b *Batcher) lookup(ctx context.Context, symbol string, date time.Time) float64 {
	key := memoKey(symbol, date)
	if v, ok := b.memo.Get(key); ok {
		return v.(closeResult).price
	}

	v, err, _ := b.group.Do(key, func() (interface{}, error) {
		// a concurrent caller may have filled the memo before this flight started
		if v, ok := b.memo.Get(key); ok {
			return v, nil
		}

		price, found, err := b.history.GetHistoricalClose(ctx, symbol, date)
		if err != nil {
			// provider failures are not answers; the next import asks again
			return closeResult{}, err
		}

		if !found || price <= 0 {
			res := closeResult{}
			b.memo.Set(key, res, unknownTTL)
			return res, nil
		}
		res := closeResult{price: price, found: true}
		b.memo.Set(key, res, cache.DefaultExpiration)
		return res, nil
	})
	if err != nil {
		b.logger.Warn().
			Err(err).
			Str("symbol", symbol).
			Str("date", date.Format(models.DateLayout)).
			Msg("Historical price lookup failed")
		return 0
	}
	return v.(closeResult).price
}

func memoKey(symbol string, date time.Time) string {
	return fmt.Sprintf("%s|%s", strings.ToUpper(symbol), date.Format(models.DateLayout))
}

var dateLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// normalizeType canonicalises known kinds and defaults an empty type to buy.
func normalizeType(s string) string {
	if strings.TrimSpace(s) == "" {
		return string(models.KindBuy)
	}
	if k, err := models.ParseKind(s); err == nil {
		return string(k)
	}
	return strings.ToLower(strings.TrimSpace(s))
}
