package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tacosmaster/taqueria-api/internal/config"
)

// AuthHandler exchanges the shared kitchen PIN for a session token.
type AuthHandler struct {
	cfg config.AuthConfig
	log *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(cfg config.AuthConfig, log *slog.Logger) *AuthHandler {
	return &AuthHandler{cfg: cfg, log: log}
}

// Login handles POST /api/kitchen/login. A correct PIN yields a signed
// session token valid for the configured TTL (8 hours by default).
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.PIN), []byte(h.cfg.KitchenPIN)) != 1 {
		h.log.Warn("kitchen login rejected", "remote_addr", r.RemoteAddr)
		WriteError(w, http.StatusUnauthorized, "Invalid PIN", h.log)
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.cfg.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "kitchen",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString([]byte(h.cfg.SessionSecret))
	if err != nil {
		h.log.Error("failed to sign session token", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"token":     signed,
		"expiresAt": expiresAt.UTC(),
	}, h.log)
}
