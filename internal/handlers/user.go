package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/languageloom/languageloom-backend/internal/services"
)

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// PutUser handles PUT /users/{email}.
func (h *UserHandler) PutUser(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.service.UpsertUser(r.Context(), mux.Vars(r)["email"], body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}

// PatchUser handles PATCH /users/{email}, which only changes the role.
func (h *UserHandler) PatchUser(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.service.SetRole(r.Context(), mux.Vars(r)["email"], body["role"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// GetUsers handles GET /users. With ?email= it answers the role pair of that user
// instead of the user list.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		h.writeRoles(w, r, email)
		return
	}

	users, err := h.service.UserList(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, users)
}

func (h *UserHandler) GetRoles(w http.ResponseWriter, r *http.Request) {
	h.writeRoles(w, r, mux.Vars(r)["email"])
}

func (h *UserHandler) writeRoles(w http.ResponseWriter, r *http.Request, email string) {
	roles, err := h.service.Roles(r.Context(), email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, roles)
}
