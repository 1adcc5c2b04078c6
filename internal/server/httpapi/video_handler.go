package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/higherpolynomia/backend/internal/common"
	"github.com/higherpolynomia/backend/internal/server/services"
)

type VideoHandler struct {
	service *services.VideoService
}

func NewVideoHandler(service *services.VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

func videoInputFromForm(r *http.Request) (*services.VideoInput, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, common.ErrorValidation
	}

	in := &services.VideoInput{
		CourseID:    r.FormValue("courseId"),
		PlaylistID:  r.FormValue("playlistId"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    r.FormValue("duration"),
		Video:       formUpload(r, "video"),
		Thumbnail:   formUpload(r, "thumbnail"),
		Notes:       formUpload(r, "notes"),
	}

	if raw := r.FormValue("orderIndex"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			return nil, common.ErrorValidation
		}
		in.OrderIndex = &index
	}

	return in, nil
}

func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	in, err := videoInputFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	video, err := h.service.Upload(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Video uploaded successfully.",
		"video":   newVideoView(video),
	})
}

func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	in, err := videoInputFromForm(r)
	if err != nil {
		writeError(w, err)
		return
	}

	video, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Video updated successfully.",
		"video":   newVideoView(video),
	})
}

func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Video deleted successfully.")
}

func (h *VideoHandler) ListByCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseId")

	list, err := h.service.ListByCourse(r.Context(), courseID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"videos": newVideoViews(list)})
}

func (h *VideoHandler) GeneratePresignedURL(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")

	key, url, err := h.service.GetPresignedPutURL(r.Context(), filename)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"key": key,
		"url": url,
	})
}
