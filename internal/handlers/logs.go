package handlers

import (
	"net/http"

	"github.com/bobmcallan/vire-tracker/internal/common"
)

// LogSource returns the buffered log entries tagged with a correlation ID.
// *common.Logger satisfies it through arbor's memory writer.
type LogSource interface {
	GetMemoryLogsForCorrelation(correlationID string) (map[string]string, error)
}

// LogsHandler serves the log trace of a single request.
type LogsHandler struct {
	source LogSource
	logger *common.Logger
}

// LogsResponse is the body of GET /api/logs/{id}.
type LogsResponse struct {
	CorrelationID string            `json:"correlation_id"`
	Entries       map[string]string `json:"entries"`
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(source LogSource, logger *common.Logger) *LogsHandler {
	return &LogsHandler{source: source, logger: logger}
}

// Get handles GET /api/logs/{id}. Unknown IDs return 404.
func (h *LogsHandler) Get(w http.ResponseWriter, r *http.Request, correlationID string) {
	entries, err := h.source.GetMemoryLogsForCorrelation(correlationID)
	if err != nil {
		h.logger.Warn().Err(err).Str("correlation_id", correlationID).Msg("Log trace lookup failed")
		WriteError(w, http.StatusInternalServerError, "log trace unavailable")
		return
	}
	if len(entries) == 0 {
		WriteError(w, http.StatusNotFound, "no log entries for "+correlationID)
		return
	}
	WriteData(w, http.StatusOK, LogsResponse{CorrelationID: correlationID, Entries: entries})
}
