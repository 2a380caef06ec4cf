package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"shikayat/models"
	"shikayat/service"
)

// ComplaintHandler handles HTTP requests for complaints.
type ComplaintHandler struct {
	service *service.ComplaintService
	logger  zerolog.Logger
}

func NewComplaintHandler(svc *service.ComplaintService, logger zerolog.Logger) *ComplaintHandler {
	return &ComplaintHandler{service: svc, logger: logger}
}

// CreateComplaint handles POST /api/v1/complaints.
func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
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

	complaint, err := h.service.Submit(r.Context(), caller, req)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, complaint)
}

// ListMyComplaints handles GET /api/v1/complaints.
func (h *ComplaintHandler) ListMyComplaints(w http.ResponseWriter, r *http.Request) {
	caller, ok := getCaller(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Caller not found in context")
		return
	}

	complaints, err := h.service.ListMine(caller)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}
	respondWithJSON(w, http.StatusOK, complaints)
}

// GetComplaint handles GET /api/v1/complaints/{id}.
func (h *ComplaintHandler) GetComplaint(w http.ResponseWriter, r *http.Request) {
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

// ChangeStatus handles POST /api/v1/complaints/{id}/status.
func (h *ComplaintHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
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

// ToggleImportance handles POST /api/v1/complaints/{id}/importance.
func (h *ComplaintHandler) ToggleImportance(w http.ResponseWriter, r *http.Request) {
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

// AddComment handles POST /api/v1/complaints/{id}/comments.
func (h *ComplaintHandler) AddComment(w http.ResponseWriter, r *http.Request) {
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
