package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret, userID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func protectedEndpoint(t *testing.T, roles ...string) (http.Handler, *string) {
	t.Helper()
	var seenUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = r.Header.Get("X-UserId")
		w.WriteHeader(http.StatusOK)
	})
	return NewAuthMiddleware(testSecret).RequireRole(next, roles...), &seenUser
}

func TestRequireRole(t *testing.T) {
	t.Run("valid token with allowed role passes", func(t *testing.T) {
		h, seenUser := protectedEndpoint(t, RoleStaff)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "staff-1", RoleStaff))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "staff-1", *seenUser)
	})

	t.Run("any of several roles is enough", func(t *testing.T) {
		h, _ := protectedEndpoint(t, RoleDriver, RoleStaff)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "drv-1", RoleDriver))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		h, _ := protectedEndpoint(t, RoleStaff)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("wrong signing secret", func(t *testing.T) {
		h, _ := protectedEndpoint(t, RoleStaff)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, "other-secret", "staff-1", RoleStaff))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("disallowed role is forbidden", func(t *testing.T) {
		h, _ := protectedEndpoint(t, RoleStaff)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "drv-1", RoleDriver))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("spoofed identity header is overwritten", func(t *testing.T) {
		h, seenUser := protectedEndpoint(t, RoleStaff)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, "staff-1", RoleStaff))
		req.Header.Set("X-UserId", "someone-else")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "staff-1", *seenUser)
	})
}
