package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/server/services"
)

type DoubtHandler struct {
	service *services.DoubtService
}

func NewDoubtHandler(service *services.DoubtService) *DoubtHandler {
	return &DoubtHandler{service: service}
}

type createDoubtRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CourseName  string `json:"courseName"`
	Description string `json:"doubtDescription"`
}

func (h *DoubtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDoubtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	request, err := h.service.Create(r.Context(), req.Name, req.Email, req.CourseName, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Doubt request submitted successfully.",
		"doubtRequest": newDoubtView(request),
	})
}

func (h *DoubtHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"doubtRequests": newDoubtViews(list)})
}

type acceptDoubtRequest struct {
	Duration    string    `json:"duration"`
	MeetLink    string    `json:"meetLink"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func (h *DoubtHandler) Accept(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req acceptDoubtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if req.Duration == "" || req.MeetLink == "" || req.ScheduledAt.IsZero() {
		writeError(w, common.ErrorValidation)
		return
	}

	request, err := h.service.Accept(r.Context(), id, req.Duration, req.MeetLink, req.ScheduledAt)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Doubt request accepted.",
		"doubtRequest": newDoubtView(request),
	})
}

func (h *DoubtHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	request, err := h.service.Reject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Doubt request rejected.",
		"doubtRequest": newDoubtView(request),
	})
}
