package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/languageloom/languageloom-backend/internal/logging"
)

type contextKey struct{}

// Verifier validates a raw bearer token.
type Verifier interface {
	Verify(token string) (jwt.MapClaims, error)
}

type unauthorizedResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// Guard rejects requests without a valid bearer token. The downstream handler only
// runs after verification succeeded.
func Guard(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w)
				return
			}

			parts := strings.Split(header, " ")
			if len(parts) < 2 || parts[1] == "" {
				writeUnauthorized(w)
				return
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				logging.FromContext(r.Context()).Info("rejected bearer token", "error", err)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(unauthorizedResponse{Error: true, Message: "unauthorized access"})
}

// ContextWithClaims returns a derived context carrying verified claims.
func ContextWithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, contextKey{}, claims)
}

// ClaimsFromContext returns the claims attached by Guard.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(contextKey{}).(jwt.MapClaims)
	return claims, ok
}

// CallerEmail is the email claim of the authenticated caller, if any.
func CallerEmail(ctx context.Context) string {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}
