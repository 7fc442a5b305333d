package yahoo

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/models"
)

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			Symbol                     string  `json:"symbol"`
			ShortName                  string  `json:"shortName"`
			LongName                   string  `json:"longName"`
			Currency                   string  `json:"currency"`
			MarketState                string  `json:"marketState"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
			RegularMarketChange        float64 `json:"regularMarketChange"`
			RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			RegularMarketTime          int64   `json:"regularMarketTime"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"quoteResponse"`
}

// GetQuoteSnapshot fetches live quotes in chunks. Symbols the provider does
// not price are absent from the result. A failed chunk fails the call only
// when nothing was returned at all.
func (c *Client) GetQuoteSnapshot(ctx context.Context, symbols []string) (map[string]models.Quote, error) {
	out := make(map[string]models.Quote, len(symbols))
	var firstErr error

	for start := 0; start < len(symbols); start += quoteChunk {
		end := min(start+quoteChunk, len(symbols))
		chunk := symbols[start:end]

		if err := c.fetchQuoteChunk(ctx, chunk, out); err != nil {
			c.logger.Warn().
				Err(err).
				Strs("symbols", chunk).
				Msg("Quote chunk failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if len(out) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

func (c *Client) fetchQuoteChunk(ctx context.Context, symbols []string, out map[string]models.Quote) error {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))

	body, err := c.get(ctx, "/v7/finance/quote", q)
	if err != nil {
		return err
	}

	var raw quoteResponse
	if err := decode(body, &raw); err != nil {
		return err
	}

	for _, r := range raw.QuoteResponse.Result {
		if r.RegularMarketPrice <= 0 {
			continue
		}
		sym := strings.ToUpper(r.Symbol)
		name := r.ShortName
		if name == "" {
			name = r.LongName
		}
		quote := models.Quote{
			Symbol:        sym,
			Name:          name,
			Price:         r.RegularMarketPrice,
			PreviousClose: r.RegularMarketPreviousClose,
			Change:        r.RegularMarketChange,
			ChangePct:     r.RegularMarketChangePercent,
			Currency:      r.Currency,
			MarketState:   r.MarketState,
		}
		if r.RegularMarketTime > 0 {
			quote.Timestamp = time.Unix(r.RegularMarketTime, 0).UTC()
		}
		out[sym] = quote
	}
	return nil
}
