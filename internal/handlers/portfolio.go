package handlers

import (
	"net/http"

	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/bobmcallan/vire-tracker/internal/models"
)

// PortfolioHandler serves holdings, valuations and imports. Routing by
// path and method happens in the server; each method assumes it matched.
type PortfolioHandler struct {
	service interfaces.PortfolioService
	logger  *common.Logger
}

// NewPortfolioHandler creates a new portfolio handler.
func NewPortfolioHandler(service interfaces.PortfolioService, logger *common.Logger) *PortfolioHandler {
	return &PortfolioHandler{service: service, logger: logger}
}

// ImportRequest is the body of POST /api/portfolios/{id}/import.
type ImportRequest struct {
	Transactions []models.RawTransaction `json:"transactions"`
}

// ImportResponse summarises an import.
type ImportResponse struct {
	Rows    []models.NormalizedTransaction `json:"rows"`
	Valid   int                            `json:"valid"`
	Invalid int                            `json:"invalid"`
}

// List handles GET /api/portfolios.
func (h *PortfolioHandler) List(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.ListPortfolios(r.Context())
	if err != nil {
		h.fail(w, err, "")
		return
	}
	WriteData(w, http.StatusOK, ids)
}

// Holdings handles GET /api/portfolios/{id}/holdings.
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request, portfolioID string) {
	hs, err := h.service.Holdings(r.Context(), portfolioID)
	if err != nil {
		h.fail(w, err, portfolioID)
		return
	}
	WriteData(w, http.StatusOK, hs)
}

// Valuation handles GET /api/portfolios/{id}/valuation.
func (h *PortfolioHandler) Valuation(w http.ResponseWriter, r *http.Request, portfolioID string) {
	v, err := h.service.Valuation(r.Context(), portfolioID)
	if err != nil {
		h.fail(w, err, portfolioID)
		return
	}
	WriteData(w, http.StatusOK, v)
}

// Import handles POST /api/portfolios/{id}/import.
func (h *PortfolioHandler) Import(w http.ResponseWriter, r *http.Request, portfolioID string) {
	var req ImportRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Transactions) == 0 {
		WriteError(w, http.StatusBadRequest, "No transactions to import")
		return
	}

	rows, err := h.service.Import(r.Context(), portfolioID, req.Transactions)
	if err != nil {
		h.fail(w, err, portfolioID)
		return
	}

	resp := ImportResponse{Rows: rows}
	for _, row := range rows {
		if row.Valid {
			resp.Valid++
		} else {
			resp.Invalid++
		}
	}
	WriteData(w, http.StatusOK, resp)
}

// Watch handles POST /api/portfolios/{id}/watch.
func (h *PortfolioHandler) Watch(w http.ResponseWriter, r *http.Request, portfolioID string) {
	symbols, err := h.service.Watch(r.Context(), portfolioID)
	if err != nil {
		h.fail(w, err, portfolioID)
		return
	}
	WriteData(w, http.StatusOK, map[string]interface{}{"symbols": symbols})
}

// Delete handles DELETE /api/portfolios/{id}.
func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request, portfolioID string) {
	n, err := h.service.DeletePortfolio(r.Context(), portfolioID)
	if err != nil {
		h.fail(w, err, portfolioID)
		return
	}
	WriteData(w, http.StatusOK, map[string]int{"deleted": n})
}

func (h *PortfolioHandler) fail(w http.ResponseWriter, err error, portfolioID string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error().Err(err).Str("portfolio", portfolioID).Msg("Portfolio request failed")
	}
	WriteError(w, status, err.Error())
}
