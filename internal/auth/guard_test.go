package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	t.Parallel()
	issuer := NewIssuer(testSecret, time.Hour)
	valid, err := issuer.Issue(map[string]interface{}{"email": "student@example.com"})
	require.NoError(t, err)

	expired := fixedIssuer(testSecret, time.Hour, time.Now().Add(-3*time.Hour))
	expiredToken, err := expired.Issue(map[string]interface{}{"email": "student@example.com"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCalled bool
	}{
		{name: "no header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "scheme only", header: "Bearer", wantStatus: http.StatusUnauthorized},
		{name: "malformed token", header: "Bearer abc.def.ghi", wantStatus: http.StatusUnauthorized},
		{name: "expired token", header: "Bearer " + expiredToken, wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer " + valid, wantStatus: http.StatusOK, wantCalled: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			called := false
			var caller string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				caller = CallerEmail(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPatch, "/classes/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			Guard(issuer)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantCalled {
				assert.Equal(t, "student@example.com", caller)
				return
			}

			var body unauthorizedResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.True(t, body.Error)
			assert.Equal(t, "unauthorized access", body.Message)
		})
	}
}

func TestClaimsFromContext_Missing(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
	assert.Empty(t, CallerEmail(req.Context()))
}
