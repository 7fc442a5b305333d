// Package holdings derives open positions and weighted-average cost basis
// from a transaction ledger.
package holdings

import (
	"strings"

	"github.com/bobmcallan/vire-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// Result is the outcome of folding a ledger.
type Result struct {
	// Holdings with quantity > 0, in order of first appearance.
	Holdings []models.Holding
	// Quarantined transactions carried a kind outside the known set and were not applied.
	Quarantined []models.Transaction
	// Oversold keys finished with a negative quantity.
	Oversold []models.HoldingKey
}

type position struct {
	symbol      string
	name        string
	portfolioID string
	assetID     string
	quantity    decimal.Decimal
	avgCost     decimal.Decimal
	totalCost   decimal.Decimal
}

// ComputeHoldings folds transactions into current holdings. An empty
// portfolioID includes every portfolio. Callers supply chronological order.
func ComputeHoldings(txs []models.Transaction, portfolioID string) []models.Holding {
	return Accumulate(txs, portfolioID).Holdings
}

// Accumulate is ComputeHoldings with quarantine and oversold reporting.
func Accumulate(txs []models.Transaction, portfolioID string) Result {
	var res Result
	positions := make(map[models.HoldingKey]*position)
	var order []models.HoldingKey

	for _, tx := range txs {
		if portfolioID != "" && tx.PortfolioID != portfolioID {
			continue
		}
		if !tx.Kind.Valid() {
			res.Quarantined = append(res.Quarantined, tx)
			continue
		}
		if tx.Kind.IsCash() {
			continue
		}

		key := models.HoldingKey{PortfolioID: tx.PortfolioID, AssetID: assetKey(tx)}
		p, ok := positions[key]
		if !ok {
			p = &position{portfolioID: key.PortfolioID, assetID: key.AssetID}
			positions[key] = p
			order = append(order, key)
		}
		if tx.Symbol != "" {
			p.symbol = strings.ToUpper(tx.Symbol)
		}
		if tx.Name != "" {
			p.name = tx.Name
		}
		p.apply(tx)
	}

	for _, key := range order {
		p := positions[key]
		switch {
		case p.quantity.IsPositive():
			res.Holdings = append(res.Holdings, p.holding())
		case p.quantity.IsNegative():
			res.Oversold = append(res.Oversold, key)
		}
	}
	return res
}

func (p *position) apply(tx models.Transaction) {
	qty := decimal.NewFromFloat(tx.Quantity)

	switch tx.Kind {
	case models.KindBuy, models.KindTransferIn:
		txCost := decimal.NewFromFloat(tx.PricePerUnit).Mul(qty).Add(decimal.NewFromFloat(tx.Fees))
		p.totalCost = p.totalCost.Add(txCost)
		p.quantity = p.quantity.Add(qty)
		if p.quantity.IsZero() {
			p.avgCost = decimal.Zero
		} else {
			p.avgCost = p.totalCost.Div(p.quantity)
		}

	case models.KindSell, models.KindTransferOut, models.KindOptionExercise, models.KindOptionAssignment:
		p.quantity = p.quantity.Sub(qty)
		p.totalCost = decimal.Max(decimal.Zero, p.totalCost.Sub(p.avgCost.Mul(qty)))

	case models.KindOptionExpiration:
		p.quantity = decimal.Zero
		p.totalCost = decimal.Zero

	case models.KindDeposit, models.KindWithdrawal, models.KindMarginInterest:
		// cash kinds never reach a position
	}
}

func (p *position) holding() models.Holding {
	return models.Holding{
		AssetID:     p.assetID,
		Symbol:      p.symbol,
		Name:        p.name,
		PortfolioID: p.portfolioID,
		Quantity:    p.quantity.InexactFloat64(),
		AvgCost:     p.avgCost.InexactFloat64(),
		TotalCost:   p.totalCost.InexactFloat64(),
	}
}

// assetKey falls back to the uppercased symbol for ledgers without asset IDs.
func assetKey(tx models.Transaction) string {
	if tx.AssetID != "" {
		return tx.AssetID
	}
	return strings.ToUpper(tx.Symbol)
}

// Symbols returns the distinct uppercased symbols of the given holdings.
func Symbols(hs []models.Holding) []string {
	seen := make(map[string]bool, len(hs))
	var out []string
	for _, h := range hs {
		s := strings.ToUpper(h.Symbol)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
