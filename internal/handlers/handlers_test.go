package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/bobmcallan/vire-tracker/internal/models"
	"github.com/bobmcallan/vire-tracker/internal/services/portfolio"
)

// --- mocks ---

type mockPortfolioService struct {
	holdings  []models.Holding
	valuation *models.PortfolioValuation
	rows      []models.NormalizedTransaction
	ids       []string
	deleted   int
	err       error

	imported []models.RawTransaction
}

func (m *mockPortfolioService) Holdings(ctx context.Context, id string) ([]models.Holding, error) {
	return m.holdings, m.err
}

func (m *mockPortfolioService) Valuation(ctx context.Context, id string) (*models.PortfolioValuation, error) {
	return m.valuation, m.err
}

func (m *mockPortfolioService) Import(ctx context.Context, id string, raws []models.RawTransaction) ([]models.NormalizedTransaction, error) {
	m.imported = raws
	return m.rows, m.err
}

func (m *mockPortfolioService) Watch(ctx context.Context, id string) ([]string, error) {
	return []string{"AAPL"}, m.err
}

func (m *mockPortfolioService) ListPortfolios(ctx context.Context) ([]string, error) {
	return m.ids, m.err
}

func (m *mockPortfolioService) DeletePortfolio(ctx context.Context, id string) (int, error) {
	return m.deleted, m.err
}

type mockQuoteService struct {
	status  models.QuoteStatus
	quotes  map[string]models.Quote
	fetched []string
	started []string
	stopped bool
}

func (m *mockQuoteService) StartPolling(ctx context.Context, symbols []string) {
	m.started = symbols
	m.status.Symbols = symbols
	m.status.Polling = len(symbols) > 0
}

func (m *mockQuoteService) AddSymbols(ctx context.Context, symbols []string) {}

func (m *mockQuoteService) StopPolling() {
	m.stopped = true
	m.status.Polling = false
}

func (m *mockQuoteService) FetchQuotes(ctx context.Context, symbols []string) map[string]models.Quote {
	m.fetched = symbols
	return m.quotes
}

func (m *mockQuoteService) GetQuote(symbol string) (models.Quote, bool) {
	q, ok := m.quotes[strings.ToUpper(symbol)]
	return q, ok
}

func (m *mockQuoteService) Status() models.QuoteStatus { return m.status }

var (
	_ interfaces.PortfolioService = (*mockPortfolioService)(nil)
	_ interfaces.QuoteService     = (*mockQuoteService)(nil)
)

type envelope struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to unmarshal response: %v (%s)", err, w.Body.String())
	}
	return env
}

// --- health / version ---

func TestHealthHandler_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestHealthHandler_ReportsPolling(t *testing.T) {
	qs := &mockQuoteService{status: models.QuoteStatus{Polling: true}}
	handler := NewHealthHandler(nil, qs)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/health", nil))

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["polling"] != true {
		t.Errorf("expected polling true, got %v", body["polling"])
	}
}

func TestHealthHandler_RejectsNonGET(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	req := httptest.NewRequest("POST", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestVersionHandler_ReturnsJSON(t *testing.T) {
	handler := NewVersionHandler(nil)

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	for _, field := range []string{"version", "build", "git_commit"} {
		if _, ok := body[field]; !ok {
			t.Errorf("expected %s field in response", field)
		}
	}
}

// --- portfolio ---

func TestPortfolioHandler_Holdings(t *testing.T) {
	svc := &mockPortfolioService{holdings: []models.Holding{{Symbol: "AAPL", Quantity: 15, AvgCost: 15}}}
	h := NewPortfolioHandler(svc, common.NewSilentLogger())

	w := httptest.NewRecorder()
	h.Holdings(w, httptest.NewRequest("GET", "/api/portfolios/main/holdings", nil), "main")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	env := decode(t, w)
	var hs []models.Holding
	json.Unmarshal(env.Data, &hs)
	if len(hs) != 1 || hs[0].Quantity != 15 {
		t.Errorf("holdings = %+v", hs)
	}
}

func TestPortfolioHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid portfolio", portfolio.ErrInvalidPortfolio, http.StatusBadRequest},
		{"not found", interfaces.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Join(errors.New("ctx"), interfaces.ErrNotFound), http.StatusNotFound},
		{"storage failure", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPortfolioHandler(&mockPortfolioService{err: tt.err}, common.NewSilentLogger())
			w := httptest.NewRecorder()
			h.Valuation(w, httptest.NewRequest("GET", "/", nil), "x")

			if w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
			if env := decode(t, w); env.Status != "error" || env.Error == "" {
				t.Errorf("expected error envelope, got %+v", env)
			}
		})
	}
}

func TestPortfolioHandler_Valuation(t *testing.T) {
	svc := &mockPortfolioService{valuation: &models.PortfolioValuation{
		PortfolioID: "main",
		Summary:     models.ValuationSummary{TotalValue: 120, TotalCost: 100, TotalGain: 20},
		Stale:       true,
	}}
	h := NewPortfolioHandler(svc, common.NewSilentLogger())

	w := httptest.NewRecorder()
	h.Valuation(w, httptest.NewRequest("GET", "/api/portfolios/main/valuation", nil), "main")

	env := decode(t, w)
	var v models.PortfolioValuation
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("bad data: %v", err)
	}
	if v.Summary.TotalGain != 20 || !v.Stale {
		t.Errorf("valuation = %+v", v)
	}
}

func TestPortfolioHandler_ImportCountsRows(t *testing.T) {
	svc := &mockPortfolioService{rows: []models.NormalizedTransaction{
		{Symbol: "AAPL", Valid: true},
		{Symbol: "", Valid: false, Error: models.ErrMissingSymbol},
		{Symbol: "MSFT", Valid: true},
	}}
	h := NewPortfolioHandler(svc, common.NewSilentLogger())

	body := `{"transactions":[{"symbol":"AAPL","type":"buy","quantity":1},{"symbol":"","quantity":1},{"symbol":"MSFT","quantity":2,"price":400}]}`
	w := httptest.NewRecorder()
	h.Import(w, httptest.NewRequest("POST", "/api/portfolios/main/import", strings.NewReader(body)), "main")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(svc.imported) != 3 {
		t.Fatalf("service received %d rows, want 3", len(svc.imported))
	}
	if p := svc.imported[2].Price; p == nil || *p != 400 {
		t.Errorf("price not decoded: %v", p)
	}
	if svc.imported[0].Price != nil {
		t.Error("absent price should decode as nil")
	}

	var resp ImportResponse
	json.Unmarshal(decode(t, w).Data, &resp)
	if resp.Valid != 2 || resp.Invalid != 1 || len(resp.Rows) != 3 {
		t.Errorf("response = %+v", resp)
	}
}

func TestPortfolioHandler_ImportRejectsBadBody(t *testing.T) {
	h := NewPortfolioHandler(&mockPortfolioService{}, common.NewSilentLogger())

	for _, body := range []string{`not json`, `{"transactions":[]}`, `{"rows":[]}`} {
		w := httptest.NewRecorder()
		h.Import(w, httptest.NewRequest("POST", "/", strings.NewReader(body)), "main")
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestPortfolioHandler_ListAndDelete(t *testing.T) {
	svc := &mockPortfolioService{ids: []string{"a", "b"}, deleted: 4}
	h := NewPortfolioHandler(svc, common.NewSilentLogger())

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest("GET", "/api/portfolios", nil))
	var ids []string
	json.Unmarshal(decode(t, w).Data, &ids)
	if len(ids) != 2 {
		t.Errorf("ids = %v", ids)
	}

	w = httptest.NewRecorder()
	h.Delete(w, httptest.NewRequest("DELETE", "/api/portfolios/a", nil), "a")
	var del map[string]int
	json.Unmarshal(decode(t, w).Data, &del)
	if del["deleted"] != 4 {
		t.Errorf("deleted = %v", del)
	}
}

// --- quotes ---

func TestQuotesHandler_GetQuote(t *testing.T) {
	qs := &mockQuoteService{quotes: map[string]models.Quote{"AAPL": {Symbol: "AAPL", Price: 190}}}
	h := NewQuotesHandler(qs, common.NewSilentLogger())

	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest("GET", "/api/quotes/aapl", nil), "aapl")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var q models.Quote
	json.Unmarshal(decode(t, w).Data, &q)
	if q.Price != 190 {
		t.Errorf("quote = %+v", q)
	}

	w = httptest.NewRecorder()
	h.Get(w, httptest.NewRequest("GET", "/api/quotes/ZZZ", nil), "ZZZ")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestQuotesHandler_RefreshDefaultsToWatchedSet(t *testing.T) {
	qs := &mockQuoteService{status: models.QuoteStatus{Symbols: []string{"AAPL", "MSFT"}, LastUpdated: time.Now()}}
	h := NewQuotesHandler(qs, common.NewSilentLogger())

	w := httptest.NewRecorder()
	h.Refresh(w, httptest.NewRequest("POST", "/api/quotes/refresh", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(qs.fetched) != 2 {
		t.Errorf("fetched = %v, want watched set", qs.fetched)
	}
}

func TestQuotesHandler_RefreshExplicitSymbols(t *testing.T) {
	qs := &mockQuoteService{}
	h := NewQuotesHandler(qs, common.NewSilentLogger())

	w := httptest.NewRecorder()
	h.Refresh(w, httptest.NewRequest("POST", "/api/quotes/refresh", strings.NewReader(`{"symbols":["nvda"]}`)))

	if len(qs.fetched) != 1 || qs.fetched[0] != "nvda" {
		t.Errorf("fetched = %v", qs.fetched)
	}
}

func TestQuotesHandler_RefreshNothingToDo(t *testing.T) {
	h := NewQuotesHandler(&mockQuoteService{}, common.NewSilentLogger())

	w := httptest.NewRecorder()
	h.Refresh(w, httptest.NewRequest("POST", "/api/quotes/refresh", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestQuotesHandler_WatchAndUnwatch(t *testing.T) {
	qs := &mockQuoteService{}
	h := NewQuotesHandler(qs, common.NewSilentLogger())

	w := httptest.NewRecorder()
	h.Watch(w, httptest.NewRequest("POST", "/api/quotes/watch", strings.NewReader(`{"symbols":["AAPL"]}`)))
	if len(qs.started) != 1 {
		t.Errorf("started = %v", qs.started)
	}

	w = httptest.NewRecorder()
	h.Unwatch(w, httptest.NewRequest("DELETE", "/api/quotes/watch", nil))
	if !qs.stopped {
		t.Error("expected StopPolling")
	}
	var st models.QuoteStatus
	json.Unmarshal(decode(t, w).Data, &st)
	if st.Polling {
		t.Error("status still polling after unwatch")
	}
}

// --- logs ---

type mockLogSource struct {
	entries map[string]map[string]string
	err     error
}

func (m *mockLogSource) GetMemoryLogsForCorrelation(id string) (map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[id], nil
}

func TestLogsHandler_Get(t *testing.T) {
	source := &mockLogSource{entries: map[string]map[string]string{
		"req-1": {"0001": "HTTP request status=200"},
	}}
	h := NewLogsHandler(source, common.NewSilentLogger())

	tests := []struct {
		name string
		id   string
		err  error
		want int
	}{
		{"known id", "req-1", nil, http.StatusOK},
		{"unknown id", "req-2", nil, http.StatusNotFound},
		{"source failure", "req-1", errors.New("writer closed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source.err = tt.err
			w := httptest.NewRecorder()
			h.Get(w, httptest.NewRequest("GET", "/api/logs/"+tt.id, nil), tt.id)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			env := decode(t, w)
			if tt.want != http.StatusOK {
				if env.Status != "error" {
					t.Errorf("expected error envelope, got %+v", env)
				}
				return
			}
			var body LogsResponse
			if err := json.Unmarshal(env.Data, &body); err != nil {
				t.Fatalf("unmarshal data: %v", err)
			}
			if body.CorrelationID != "req-1" || len(body.Entries) != 1 {
				t.Errorf("body = %+v", body)
			}
		})
	}
}
