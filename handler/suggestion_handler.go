package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"shikayat/models"
	"shikayat/service"
)

// SuggestionHandler handles HTTP requests for the suggestions track.
type SuggestionHandler struct {
	service *service.SuggestionService
	logger  zerolog.Logger
}

func NewSuggestionHandler(svc *service.SuggestionService, logger zerolog.Logger) *SuggestionHandler {
	return &SuggestionHandler{service: svc, logger: logger}
}

// CreateSuggestion handles POST /api/v1/suggestions.
func (h *SuggestionHandler) CreateSuggestion(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}

	var req models.SubmitRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	suggestion, err := h.service.Submit(r.Context(), caller, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, suggestion)
}

// ListSuggestions handles GET /api/v1/suggestions. Citizens get their own
// submissions; staff get the records inside their jurisdiction, optionally
// narrowed by the same navigation parameters as the dashboard.
func (h *SuggestionHandler) ListSuggestions(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}

	var suggestions []models.Suggestion
	var err error
	if caller.Role.IsStaff() {
		var nav models.Navigation
		if nav, err = navigationFromQuery(r); err != nil {
			respondWithError(w, http.StatusBadRequest, "Validation error", "navigation parameters must be numeric ids")
			return
		}
		suggestions, err = h.service.ListByScope(caller, nav)
	} else {
		suggestions, err = h.service.ListMine(caller)
	}
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	respondWithJSON(w, http.StatusOK, suggestions)
}

// GetSuggestion handles GET /api/v1/suggestions/{id}.
func (h *SuggestionHandler) GetSuggestion(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", "id must be numeric")
		return
	}

	detail, err := h.service.Get(caller, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}

// ChangeStatus handles POST /api/v1/suggestions/{id}/status.
func (h *SuggestionHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", "id must be numeric")
		return
	}

	var req models.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	if err := h.service.ChangeStatus(r.Context(), caller, id, req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Status updated"})
}

// ToggleImportance handles POST /api/v1/suggestions/{id}/importance.
func (h *SuggestionHandler) ToggleImportance(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", "id must be numeric")
		return
	}

	var req models.ToggleImportanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	if err := h.service.SetImportance(caller, id, req.Important); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Importance updated"})
}

// AddComment handles POST /api/v1/suggestions/{id}/comments.
func (h *SuggestionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}
	id, err := pathID(mux.Vars(r), "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", "id must be numeric")
		return
	}

	var req models.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	entry, err := h.service.AddComment(caller, id, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, entry)
}
