package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hedgie-app/hedgie/internal/auth"
)

func TestAuthenticate(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	mw := NewAuthMiddleware(jwtManager)

	var gotClaims *auth.Claims
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Passes through without a token", func(t *testing.T) {
		gotClaims = nil
		req := httptest.NewRequest(http.MethodGet, "/trackers", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, gotClaims)
	})

	t.Run("Attaches claims from a valid token", func(t *testing.T) {
		gotClaims = nil
		token, err := jwtManager.GenerateToken(2, "User 2")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/trackers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		if assert.NotNil(t, gotClaims) {
			assert.Equal(t, int64(2), gotClaims.UserID)
			assert.Equal(t, "User 2", gotClaims.Name)
		}
	})

	t.Run("Rejects a malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/trackers", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Rejects a token signed with another key", func(t *testing.T) {
		other := auth.NewJWTManager("other-secret", time.Hour)
		token, err := other.GenerateToken(1, "User 1")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/trackers", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
