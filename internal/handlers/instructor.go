package handlers

import (
	"net/http"

	"github.com/languageloom/languageloom-backend/internal/services"
)

type InstructorHandler struct {
	service *services.InstructorService
}

func NewInstructorHandler(service *services.InstructorService) *InstructorHandler {
	return &InstructorHandler{service: service}
}

func (h *InstructorHandler) GetInstructors(w http.ResponseWriter, r *http.Request) {
	instructors, err := h.service.InstructorList(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, instructors)
}
