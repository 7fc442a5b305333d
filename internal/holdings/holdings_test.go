package holdings

import (
	"math"
	"testing"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/models"
)

const tolerance = 1e-9

var day0 = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func tx(portfolio, asset string, kind models.TransactionKind, qty, price, fees float64) models.Transaction {
	day0 = day0.AddDate(0, 0, 1)
	return models.Transaction{
		PortfolioID:  portfolio,
		AssetID:      asset,
		Symbol:       asset,
		Kind:         kind,
		Quantity:     qty,
		PricePerUnit: price,
		Fees:         fees,
		Date:         day0,
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < tolerance }

func TestComputeHoldings_BuyBuySell(t *testing.T) {
	txs := []models.Transaction{
		tx("p1", "AAPL", models.KindBuy, 10, 10, 0),
		tx("p1", "AAPL", models.KindBuy, 10, 20, 0),
	}

	got := ComputeHoldings(txs, "")
	if len(got) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(got))
	}
	h := got[0]
	if !approx(h.Quantity, 20) || !approx(h.TotalCost, 300) || !approx(h.AvgCost, 15) {
		t.Errorf("after buys: qty=%v total=%v avg=%v, want 20/300/15", h.Quantity, h.TotalCost, h.AvgCost)
	}

	txs = append(txs, tx("p1", "AAPL", models.KindSell, 5, 99, 0))
	h = ComputeHoldings(txs, "")[0]
	if !approx(h.Quantity, 15) || !approx(h.TotalCost, 225) || !approx(h.AvgCost, 15) {
		t.Errorf("after sell: qty=%v total=%v avg=%v, want 15/225/15", h.Quantity, h.TotalCost, h.AvgCost)
	}
}

func TestComputeHoldings_FeesIncludedInCost(t *testing.T) {
	got := ComputeHoldings([]models.Transaction{
		tx("p1", "MSFT", models.KindBuy, 4, 100, 8),
	}, "")
	if !approx(got[0].TotalCost, 408) || !approx(got[0].AvgCost, 102) {
		t.Errorf("got total=%v avg=%v, want 408/102", got[0].TotalCost, got[0].AvgCost)
	}
}

func TestComputeHoldings_ExpirationZeroesPosition(t *testing.T) {
	txs := []models.Transaction{
		tx("p1", "SPY-C", models.KindBuy, 10, 5, 0),
		tx("p1", "SPY-C", models.KindOptionExpiration, 1, 0, 0),
	}
	if got := ComputeHoldings(txs, ""); len(got) != 0 {
		t.Errorf("expected expired position to be absent, got %+v", got)
	}
}

func TestComputeHoldings_ExerciseAndAssignmentActLikeSell(t *testing.T) {
	for _, kind := range []models.TransactionKind{
		models.KindSell, models.KindTransferOut, models.KindOptionExercise, models.KindOptionAssignment,
	} {
		txs := []models.Transaction{
			tx("p1", "X", models.KindBuy, 10, 10, 0),
			tx("p1", "X", kind, 4, 50, 0),
		}
		h := ComputeHoldings(txs, "")[0]
		if !approx(h.Quantity, 6) || !approx(h.TotalCost, 60) || !approx(h.AvgCost, 10) {
			t.Errorf("%s: qty=%v total=%v avg=%v, want 6/60/10", kind, h.Quantity, h.TotalCost, h.AvgCost)
		}
	}
}

func TestComputeHoldings_TransferInAddsCost(t *testing.T) {
	txs := []models.Transaction{
		tx("p1", "VTI", models.KindTransferIn, 2, 200, 0),
		tx("p1", "VTI", models.KindBuy, 2, 100, 0),
	}
	h := ComputeHoldings(txs, "")[0]
	if !approx(h.AvgCost, 150) {
		t.Errorf("avg = %v, want 150", h.AvgCost)
	}
}

func TestComputeHoldings_CashKindsExcluded(t *testing.T) {
	txs := []models.Transaction{
		tx("p1", "", models.KindDeposit, 1, 1000, 0),
		tx("p1", "", models.KindWithdrawal, 1, 50, 0),
		tx("p1", "", models.KindMarginInterest, 1, 3, 0),
	}
	if got := ComputeHoldings(txs, ""); len(got) != 0 {
		t.Errorf("cash transactions produced holdings: %+v", got)
	}
}

func TestComputeHoldings_PortfolioFilter(t *testing.T) {
	txs := []models.Transaction{
		tx("p1", "AAPL", models.KindBuy, 1, 100, 0),
		tx("p2", "AAPL", models.KindBuy, 3, 100, 0),
		tx("p2", "MSFT", models.KindBuy, 1, 300, 0),
	}

	if got := ComputeHoldings(txs, "p2"); len(got) != 2 {
		t.Errorf("filter p2: got %d holdings, want 2", len(got))
	}
	all := ComputeHoldings(txs, "")
	if len(all) != 3 {
		t.Fatalf("no filter: got %d holdings, want 3", len(all))
	}
	if all[0].PortfolioID != "p1" || all[1].PortfolioID != "p2" {
		t.Errorf("holdings not keyed per portfolio: %+v", all)
	}
}

func TestAccumulate_OversoldFilteredAndReported(t *testing.T) {
	txs := []models.Transaction{
		tx("p1", "TSLA", models.KindBuy, 5, 10, 0),
		tx("p1", "TSLA", models.KindSell, 8, 10, 0),
	}
	res := Accumulate(txs, "")
	if len(res.Holdings) != 0 {
		t.Errorf("oversold position exposed: %+v", res.Holdings)
	}
	if len(res.Oversold) != 1 || res.Oversold[0].AssetID != "TSLA" {
		t.Errorf("Oversold = %+v, want TSLA", res.Oversold)
	}
}

func TestAccumulate_UnknownKindQuarantined(t *testing.T) {
	txs := []models.Transaction{
		tx("p1", "AAPL", models.KindBuy, 10, 10, 0),
		tx("p1", "AAPL", models.TransactionKind("stock_split"), 10, 0, 0),
	}
	res := Accumulate(txs, "")
	if len(res.Quarantined) != 1 {
		t.Fatalf("Quarantined = %d, want 1", len(res.Quarantined))
	}
	if !approx(res.Holdings[0].Quantity, 10) {
		t.Errorf("unknown kind was applied: qty=%v", res.Holdings[0].Quantity)
	}
}

func TestComputeHoldings_SellClampsTotalCostAtZero(t *testing.T) {
	txs := []models.Transaction{
		tx("p1", "A", models.KindBuy, 3, 10, 0),
		tx("p1", "A", models.KindSell, 5, 10, 0),
		tx("p1", "A", models.KindBuy, 4, 0, 0),
	}
	res := Accumulate(txs, "")
	for _, h := range res.Holdings {
		if h.TotalCost < 0 {
			t.Errorf("negative total cost %v", h.TotalCost)
		}
	}
}

func TestComputeHoldings_Invariants(t *testing.T) {
	kinds := models.AllKinds
	var txs []models.Transaction
	for i := 0; i < 200; i++ {
		kind := kinds[(i*7)%len(kinds)]
		asset := []string{"A", "B", "C"}[i%3]
		txs = append(txs, tx("p1", asset, kind, float64(i%9+1), float64(i%13+1), float64(i%3)))
	}

	for _, h := range ComputeHoldings(txs, "") {
		if h.Quantity <= 0 {
			t.Errorf("%s: non-positive quantity %v in output", h.AssetID, h.Quantity)
		}
		if h.TotalCost < 0 || h.AvgCost < 0 {
			t.Errorf("%s: negative cost total=%v avg=%v", h.AssetID, h.TotalCost, h.AvgCost)
		}
		if h.AvgCost*h.Quantity > h.TotalCost+1e-6 && h.TotalCost > 0 {
			t.Errorf("%s: avg*qty %v exceeds total %v", h.AssetID, h.AvgCost*h.Quantity, h.TotalCost)
		}
	}
}

func TestComputeHoldings_FallsBackToSymbolWhenNoAssetID(t *testing.T) {
	txs := []models.Transaction{
		{PortfolioID: "p1", Symbol: "aapl", Kind: models.KindBuy, Quantity: 1, PricePerUnit: 10},
		{PortfolioID: "p1", Symbol: "AAPL", Kind: models.KindBuy, Quantity: 1, PricePerUnit: 20},
	}
	got := ComputeHoldings(txs, "")
	if len(got) != 1 || got[0].AssetID != "AAPL" || !approx(got[0].Quantity, 2) {
		t.Errorf("got %+v, want one AAPL holding of 2", got)
	}
}

func TestSymbols_Dedupes(t *testing.T) {
	hs := []models.Holding{{Symbol: "aapl"}, {Symbol: "AAPL"}, {Symbol: "MSFT"}, {Symbol: ""}}
	got := Symbols(hs)
	if len(got) != 2 || got[0] != "AAPL" || got[1] != "MSFT" {
		t.Errorf("Symbols() = %v", got)
	}
}
