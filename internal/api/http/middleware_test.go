package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/security"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := security.NewTokenManager("test-secret-with-enough-entropy!!", 60, 10080)

	var gotPrincipal domain.Principal
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotPrincipal, _ = principalFrom(r)
	})
	handler := authMiddleware(tokens)(next)

	t.Run("MissingHeader", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/leases", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("RefreshTokenRefused", func(t *testing.T) {
		called = false
		refresh, err := tokens.GenerateRefreshToken("user-1", "ana@example.com")
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/leases", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("ValidAccessTokenStoresPrincipal", func(t *testing.T) {
		called = false
		access, err := tokens.GenerateAccessToken("user-1", "ana@example.com", []domain.Role{domain.RoleLandlord})
		assert.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/leases", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, "user-1", gotPrincipal.UserID)
		assert.True(t, gotPrincipal.HasRole(domain.RoleLandlord))
	})
}
