package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
)

// QuotesHandler exposes the quote scheduler.
type QuotesHandler struct {
	quotes interfaces.QuoteService
	logger *common.Logger
}

// NewQuotesHandler creates a new quotes handler.
func NewQuotesHandler(quotes interfaces.QuoteService, logger *common.Logger) *QuotesHandler {
	return &QuotesHandler{quotes: quotes, logger: logger}
}

// SymbolsRequest carries a symbol list.
type SymbolsRequest struct {
	Symbols []string `json:"symbols"`
}

// Status handles GET /api/quotes.
func (h *QuotesHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteData(w, http.StatusOK, h.quotes.Status())
}

// Get handles GET /api/quotes/{symbol}.
func (h *QuotesHandler) Get(w http.ResponseWriter, r *http.Request, symbol string) {
	q, ok := h.quotes.GetQuote(symbol)
	if !ok {
		WriteError(w, http.StatusNotFound, "No quote for "+symbol)
		return
	}
	WriteData(w, http.StatusOK, q)
}

// Refresh handles POST /api/quotes/refresh. An empty body refreshes the watched set.
func (h *QuotesHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readSymbols(w, r)
	if !ok {
		return
	}
	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = h.quotes.Status().Symbols
	}
	if len(symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "No symbols to refresh")
		return
	}

	quotes := h.quotes.FetchQuotes(r.Context(), symbols)
	st := h.quotes.Status()
	WriteData(w, http.StatusOK, map[string]interface{}{
		"quotes":       quotes,
		"last_updated": st.LastUpdated,
		"error":        st.Error,
	})
}

// Watch handles POST /api/quotes/watch, replacing the polled set.
func (h *QuotesHandler) Watch(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readSymbols(w, r)
	if !ok {
		return
	}
	h.quotes.StartPolling(r.Context(), req.Symbols)
	WriteData(w, http.StatusOK, h.quotes.Status())
}

// Unwatch handles DELETE /api/quotes/watch.
func (h *QuotesHandler) Unwatch(w http.ResponseWriter, r *http.Request) {
	h.quotes.StopPolling()
	WriteData(w, http.StatusOK, h.quotes.Status())
}

func (h *QuotesHandler) readSymbols(w http.ResponseWriter, r *http.Request) (SymbolsRequest, bool) {
	var req SymbolsRequest
	if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}
