package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"shikayat/models"
	"shikayat/service"
)

// LookupHandler serves the region and category trees that drive the
// submission form and dashboard drill-down.
type LookupHandler struct {
	service *service.LookupService
	logger  zerolog.Logger
}

func NewLookupHandler(svc *service.LookupService, logger zerolog.Logger) *LookupHandler {
	return &LookupHandler{service: svc, logger: logger}
}

// GetLocations handles GET /api/v1/locations. Without parent_id it returns
// the provinces; with it, the children of that region.
func (h *LookupHandler) GetLocations(w http.ResponseWriter, r *http.Request) {
	parentID, err := queryID(r, "parent_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", "parent_id must be numeric")
		return
	}

	locations, err := h.service.RegionChildren(parentID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if locations == nil {
		locations = []models.Location{}
	}
	respondWithJSON(w, http.StatusOK, locations)
}

// GetCategories handles GET /api/v1/categories. Without department_id it
// returns the departments; with it, that department's sub-categories.
func (h *LookupHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	departmentID, err := queryID(r, "department_id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", "department_id must be numeric")
		return
	}

	categories, err := h.service.CategoryChildren(departmentID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	respondWithJSON(w, http.StatusOK, categories)
}
