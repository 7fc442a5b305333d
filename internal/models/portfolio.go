package models

import "time"

// Holding is an open position for one asset in one portfolio, derived from
// the ledger on demand and never stored.
type Holding struct {
	AssetID     string  `json:"asset_id"`
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	PortfolioID string  `json:"portfolio_id"`
	Quantity    float64 `json:"quantity"`
	AvgCost     float64 `json:"avg_cost"`
	TotalCost   float64 `json:"total_cost"`
}

// HoldingKey uniquely identifies a holding.
type HoldingKey struct {
	PortfolioID string
	AssetID     string
}

// Key returns the holding's (portfolio, asset) key.
func (h Holding) Key() HoldingKey {
	return HoldingKey{PortfolioID: h.PortfolioID, AssetID: h.AssetID}
}

// ValuationSummary holds point-in-time aggregate portfolio metrics.
type ValuationSummary struct {
	TotalValue       float64 `json:"total_value"`
	TotalCost        float64 `json:"total_cost"`
	DayChange        float64 `json:"day_change"`
	DayChangePercent float64 `json:"day_change_percent"`
	TotalGain        float64 `json:"total_gain"`
	TotalGainPercent float64 `json:"total_gain_percent"`
}

// PortfolioValuation is a ValuationSummary with its holdings and quote freshness.
type PortfolioValuation struct {
	PortfolioID     string           `json:"portfolio_id"`
	Summary         ValuationSummary `json:"summary"`
	Holdings        []Holding        `json:"holdings"`
	MissingQuotes   []string         `json:"missing_quotes,omitempty"`
	QuotesUpdatedAt time.Time        `json:"quotes_updated_at"`
	Stale           bool             `json:"stale"`
}
