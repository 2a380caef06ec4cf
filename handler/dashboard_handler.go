package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"shikayat/models"
	"shikayat/service"
)

// DashboardHandler serves the jurisdiction-scoped dashboard.
type DashboardHandler struct {
	service *service.DashboardService
	logger  zerolog.Logger
}

func NewDashboardHandler(svc *service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{service: svc, logger: logger}
}

// GetDashboard handles GET /api/v1/dashboard. Drill-down is expressed through
// optional province_id, district_id, tehsil_id and department_id query
// parameters; the caller's jurisdiction always caps what the drill can reach.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}

	nav, err := navigationFromQuery(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", "navigation parameters must be numeric ids")
		return
	}

	result, err := h.service.GetDashboard(caller, nav)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func navigationFromQuery(r *http.Request) (models.Navigation, error) {
	var nav models.Navigation
	var err error
	if nav.ProvinceID, err = queryID(r, "province_id"); err != nil {
		return nav, err
	}
	if nav.DistrictID, err = queryID(r, "district_id"); err != nil {
		return nav, err
	}
	if nav.TehsilID, err = queryID(r, "tehsil_id"); err != nil {
		return nav, err
	}
	if nav.DepartmentID, err = queryID(r, "department_id"); err != nil {
		return nav, err
	}
	return nav, nil
}
