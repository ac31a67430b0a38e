package handlers

import (
	"net/http"

	"github.com/languageloom/languageloom-backend/internal/auth"
	"github.com/languageloom/languageloom-backend/internal/logging"
	"github.com/languageloom/languageloom-backend/internal/services"
)

type ClassHandler struct {
	service *services.ClassService
}

func NewClassHandler(service *services.ClassService) *ClassHandler {
	return &ClassHandler{service: service}
}

// ListClasses handles GET /classes with an optional ?email= owner filter.
func (h *ClassHandler) ListClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.service.ListClasses(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, classes)
}

func (h *ClassHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	class, err := h.service.GetClass(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, class)
}

func (h *ClassHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.service.CreateClass(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// PatchClass handles PATCH /classes/{id}: status changes, instructor feedback,
// seat counts and enrollment counts, one field per request.
func (h *ClassHandler) PatchClass(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, err := decodeBody(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("class update", "class_id", id.Hex(), "caller", auth.CallerEmail(r.Context()))
	res, err := h.service.PatchClass(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// PatchFeedback handles PATCH /feedback/{id}.
func (h *ClassHandler) PatchFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, err := decodeBody(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.service.SetFeedback(r.Context(), id, body["feedback"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// PutClass handles PUT /classes/{id}.
func (h *ClassHandler) PutClass(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, err := decodeBody(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.service.ReplaceClass(r.Context(), id, body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *ClassHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	logging.FromContext(r.Context()).Info("class delete", "class_id", id.Hex(), "caller", auth.CallerEmail(r.Context()))
	res, err := h.service.DeleteClass(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
