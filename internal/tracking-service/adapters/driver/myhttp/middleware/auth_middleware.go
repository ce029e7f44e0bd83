package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"bus-track/internal/tracking-service/adapters/driver/myhttp/handle"

	"github.com/golang-jwt/jwt"
)

const (
	RoleDriver = "DRIVER"
	RoleStaff  = "STAFF"
)

type AuthMiddleware struct {
	accessSecret string
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
	}
}

// RequireRole validates the bearer token and admits only the listed roles.
// The authenticated subject is passed downstream in X-UserId.
func (am *AuthMiddleware) RequireRole(next http.Handler, roles ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("empty JWT-Token"))
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return []byte(am.accessSecret), nil
		})
		if err != nil {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("failed to parse JWT-Token"))
			return
		}

		if !token.Valid {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("invalid JWT-Token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("invalid claims"))
			return
		}

		userId, ok := claims["user_id"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("user not found in token"))
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("role not found in token"))
			return
		}

		allowed := false
		for _, want := range roles {
			if role == want {
				allowed = true
				break
			}
		}
		if !allowed {
			handle.JsonError(w, http.StatusForbidden, fmt.Errorf("role %s not allowed on this route", role))
			return
		}

		r.Header.Set("X-UserId", userId)
		r.Header.Set("X-UserRole", role)

		next.ServeHTTP(w, r)
	})
}
