package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tacosmaster/taqueria-api/internal/config"
)

// KitchenAuth middleware guards the staff-only kitchen endpoints.
// Staff obtain a session token from the PIN login endpoint and send it
// as a bearer token; tokens expire after the configured session TTL.
func KitchenAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "Unauthorized: session token required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header || tokenString == "" {
				http.Error(w, "Unauthorized: bearer token required", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(cfg.SessionSecret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Forbidden: invalid or expired session", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
