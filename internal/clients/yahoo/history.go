package yahoo

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/models"
)

// lookback covers weekends and exchange holidays before the requested date.
const lookback = 7 * 24 * time.Hour

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

// GetHistoricalClose returns the daily close on date, or on the nearest
// trading day before it. found is false when no bar exists in the window.
func (c *Client) GetHistoricalClose(ctx context.Context, symbol string, date time.Time) (float64, bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return 0, false, nil
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := day.Add(24 * time.Hour)

	q := url.Values{}
	q.Set("period1", unixParam(day.Add(-lookback)))
	q.Set("period2", unixParam(end))
	q.Set("interval", "1d")

	body, err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), q)
	if err != nil {
		return 0, false, err
	}

	var raw chartResponse
	if err := decode(body, &raw); err != nil {
		return 0, false, err
	}
	if len(raw.Chart.Result) == 0 {
		return 0, false, nil
	}

	r := raw.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return 0, false, nil
	}
	closes := r.Indicators.Quote[0].Close

	// last non-null close at or before the requested day
	for i := len(r.Timestamp) - 1; i >= 0; i-- {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		if !time.Unix(r.Timestamp[i], 0).UTC().Before(end) {
			continue
		}
		c.logger.Debug().
			Str("symbol", symbol).
			Str("date", day.Format(models.DateLayout)).
			Float64("close", *closes[i]).
			Msg("Historical close resolved")
		return *closes[i], true, nil
	}
	return 0, false, nil
}
