// Package valuation combines holdings with a quote snapshot into portfolio metrics.
package valuation

import (
	"strings"

	"github.com/bobmcallan/vire-tracker/internal/models"
)

// ComputeValuation values holdings against quotes keyed by uppercased symbol.
// A holding without a quote is carried at cost and contributes nothing to day change.
func ComputeValuation(holdings []models.Holding, quotes map[string]models.Quote) models.ValuationSummary {
	summary, _ := compute(holdings, quotes)
	return summary
}

// Value is ComputeValuation that also reports which symbols fell back to cost.
func Value(holdings []models.Holding, quotes map[string]models.Quote) (models.ValuationSummary, []string) {
	return compute(holdings, quotes)
}

func compute(holdings []models.Holding, quotes map[string]models.Quote) (models.ValuationSummary, []string) {
	var s models.ValuationSummary
	var missing []string

	for _, h := range holdings {
		s.TotalCost += h.TotalCost

		q, ok := quotes[strings.ToUpper(h.Symbol)]
		if !ok {
			s.TotalValue += h.TotalCost
			missing = append(missing, h.Symbol)
			continue
		}
		s.TotalValue += q.Price * h.Quantity
		s.DayChange += (q.Price - q.PreviousClose) * h.Quantity
	}

	// value at prior close
	if prior := s.TotalValue - s.DayChange; prior > 0 {
		s.DayChangePercent = s.DayChange / prior * 100
	}

	s.TotalGain = s.TotalValue - s.TotalCost
	if s.TotalCost > 0 {
		s.TotalGainPercent = s.TotalGain / s.TotalCost * 100
	}
	return s, missing
}
