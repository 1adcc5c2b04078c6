package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/server/services"
)

// uploads buffered in memory up to this size spill to temp files
const maxMultipartMemory = 32 << 20

// formUpload pulls one file out of a parsed multipart form. A missing
// field is not an error; it returns nil.
func formUpload(r *http.Request, field string) *services.FileUpload {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil
	}
	return &services.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
}

type CourseHandler struct {
	service *services.CourseService
}

func NewCourseHandler(service *services.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

func courseInputFromForm(r *http.Request) (*services.CourseInput, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, common.ErrorValidation
	}

	return &services.CourseInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		Category:    r.FormValue("category"),
		Status:      r.FormValue("status"),
		Thumbnail:   formUpload(r, "thumbnail"),
		Video:       formUpload(r, "video"),
		Notes:       formUpload(r, "notes"),
	}, nil
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := courseInputFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	session, _ := SessionFromContext(r.Context())
	createdBy := ""
	if session != nil {
		createdBy = session.AccountID
	}

	course, err := h.service.Create(r.Context(), createdBy, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Course created successfully.",
		"course":  newCourseView(course),
	})
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	includeDrafts := r.URL.Query().Get("role") == "admin"

	list, err := h.service.List(r.Context(), includeDrafts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"courses": newCourseViews(list)})
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"course": newCourseDetailView(detail)})
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, err := courseInputFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	course, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Course updated successfully.",
		"course":  newCourseView(course),
	})
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Course deleted successfully.")
}

type publishRequest struct {
	Status string `json:"status"`
}

func (h *CourseHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req publishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.SetStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Course status updated.")
}
