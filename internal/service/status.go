package service

import (
	"context"
	"errors"

	"github.com/tacosmaster/taqueria-api/internal/models"
	"github.com/tacosmaster/taqueria-api/internal/store"
)

var (
	// ErrNoNextStatus means the order is already at the end of the
	// forward progression (delivered) or off it entirely (cancelled).
	ErrNoNextStatus = errors.New("order has no next status")
	// ErrAlreadyFinalized means a cancel hit an order that is already
	// delivered or cancelled.
	ErrAlreadyFinalized = errors.New("order is already delivered or cancelled")
)

// Advance moves the order one step along the fixed progression
// pending -> preparing -> ready -> delivered. No skipping ahead, no
// regressing. The write is guarded on the status the caller observed:
// if another device advanced the order first, store.ErrStatusConflict
// comes back and the caller reconciles from the store.
func (s *OrderService) Advance(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	next, ok := order.Status.Next()
	if !ok {
		return nil, ErrNoNextStatus
	}

	updated, err := s.store.UpdateStatus(ctx, id, order.Status, next)
	if err != nil {
		return nil, err
	}

	s.log.Info("order advanced", "order_id", id, "from", order.Status, "to", next)
	return updated, nil
}

// Cancel moves the order to cancelled from any non-terminal state.
// Delivered and already-cancelled orders are rejected.
func (s *OrderService) Cancel(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return nil, ErrAlreadyFinalized
	}

	updated, err := s.store.UpdateStatus(ctx, id, "", models.StatusCancelled)
	if errors.Is(err, store.ErrStatusConflict) {
		// Raced with a writer that finalized the order first.
		return nil, ErrAlreadyFinalized
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("order cancelled", "order_id", id, "was", order.Status)
	return updated, nil
}
