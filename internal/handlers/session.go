package handlers

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/tacosmaster/taqueria-api/internal/cart"
)

const sessionCookie = "cart_session"

// Sessions owns one cart per browsing session. The cart engine itself
// is single-threaded; this layer provides the per-session
// synchronization and the in-flight submit guard.
type Sessions struct {
	mu       sync.Mutex
	carts    map[string]*cart.Cart
	inflight map[string]bool
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{
		carts:    make(map[string]*cart.Cart),
		inflight: make(map[string]bool),
	}
}

// Do runs fn with exclusive access to the session's cart, creating the
// cart on first use.
func (s *Sessions) Do(id string, fn func(c *cart.Cart)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[id]
	if !ok {
		c = cart.New()
		s.carts[id] = c
	}
	fn(c)
}

// BeginSubmit marks the session's checkout as in flight. It returns
// false if a submit is already running: a second tap while submitting
// must be a no-op.
func (s *Sessions) BeginSubmit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inflight[id] {
		return false
	}
	s.inflight[id] = true
	return true
}

// EndSubmit clears the in-flight flag.
func (s *Sessions) EndSubmit(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

// sessionID returns the browsing session id from the request cookie,
// minting a new one when absent.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
