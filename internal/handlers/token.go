package handlers

import (
	"net/http"

	"github.com/languageloom/languageloom-backend/internal/auth"
	"github.com/languageloom/languageloom-backend/internal/models"
)

type TokenHandler struct {
	issuer *auth.Issuer
}

func NewTokenHandler(issuer *auth.Issuer) *TokenHandler {
	return &TokenHandler{issuer: issuer}
}

// IssueToken handles POST /jwt. The body is signed as-is.
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	claims, err := decodeBody(w, r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.issuer.Issue(claims)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, models.TokenResponse{Token: token})
}
