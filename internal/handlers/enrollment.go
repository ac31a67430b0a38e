package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/languageloom/languageloom-backend/internal/services"
)

// EnrollmentHandler serves one per-student class list. The router mounts one instance
// for selections and one for confirmed enrollments.
type EnrollmentHandler struct {
	service *services.EnrollmentService
}

func NewEnrollmentHandler(service *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: service}
}

func (h *EnrollmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.service.Create(r.Context(), body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *EnrollmentHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	docs, err := h.service.ListByEmail(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, docs)
}

func (h *EnrollmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	res, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}
