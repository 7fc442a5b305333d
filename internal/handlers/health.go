package handlers

import (
	"net/http"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *common.Logger
	quotes interfaces.QuoteService
}

// NewHealthHandler creates a new health handler. quotes may be nil.
func NewHealthHandler(logger *common.Logger, quotes interfaces.QuoteService) *HealthHandler {
	return &HealthHandler{logger: logger, quotes: quotes}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	body := map[string]interface{}{
		"status": "ok",
	}
	if h.quotes != nil {
		st := h.quotes.Status()
		body["polling"] = st.Polling
		body["quotes_error"] = st.Error
	}
	WriteJSON(w, http.StatusOK, body)
}
