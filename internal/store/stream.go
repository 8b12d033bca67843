package store

import (
	"sync"

	"github.com/tacosmaster/taqueria-api/internal/models"
)

// EventType classifies a change-stream event.
type EventType string

const (
	EventInserted EventType = "insert"
	EventUpdated  EventType = "update"
	EventDeleted  EventType = "delete"
)

// Event is one change to the orders table. Line items never appear on
// the stream: they are immutable after creation, so an insert event is
// enough for consumers to refetch them.
type Event struct {
	Type  EventType    `json:"type"`
	Order models.Order `json:"order"`
}

// Hub fans change events out to subscribers. Publishing never blocks:
// a subscriber that falls behind loses events and is expected to
// reconcile with a full refetch.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber. The caller owns the returned
// handle and must Close it on teardown.
func (h *Hub) Subscribe() *Subscription {
	sub := &Subscription{
		hub: h,
		ch:  make(chan Event, 64),
	}
	sub.C = sub.ch

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

// Publish delivers the event to every subscriber without blocking.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case sub.ch <- ev:
		default:
			// Subscriber buffer full; drop rather than stall writers.
		}
	}
}

// Subscription is a cancellable handle on the change stream. Events
// arrive on C; the channel is closed by Close.
type Subscription struct {
	C    <-chan Event
	hub  *Hub
	ch   chan Event
	once sync.Once
}

// Close releases the subscription and closes C. Safe to call more
// than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		s.hub.mu.Unlock()
		close(s.ch)
	})
}
