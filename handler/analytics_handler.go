package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"shikayat/service"
)

// AnalyticsHandler serves the role-level analytics report.
type AnalyticsHandler struct {
	service *service.AnalyticsService
	logger  zerolog.Logger
}

func NewAnalyticsHandler(svc *service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc, logger: logger}
}

// GetAnalytics handles GET /api/v1/analytics. The report is always computed
// for the caller's own jurisdiction level; there is no drill-down here.
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}

	report, err := h.service.GetAnalytics(caller)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
