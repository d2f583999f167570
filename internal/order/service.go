package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/crumbsugar/storefront/internal/order/statuslog"
)

var (
	// ErrReasonRequired is returned when a cancellation carries no reason.
	ErrReasonRequired = errors.New("order: cancellation reason is required")

	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("order: rating must be between 1 and 5")

	// ErrNotCompleted is returned when rating an order that has not been
	// completed.
	ErrNotCompleted = errors.New("order: only completed orders can be rated")
)

// Service owns the order history and enforces the lifecycle. Every
// transition is mirrored into the status log; a status log failure is logged
// and does not fail the transition.
type Service struct {
	repo Repository
	slog *slog.Logger

	// statusLog may be nil: transitions are then not audited.
	statusLog statuslog.Repository
}

func NewService(repo Repository, log *slog.Logger, statusLog statuslog.Repository) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, slog: log, statusLog: statusLog}
}

// Create appends a freshly requested order to the history.
func (s *Service) Create(ctx context.Context, o Order) error {
	if o.Status == "" {
		o.Status = StatusRequested
	}
	if err := s.repo.Append(ctx, o); err != nil {
		return err
	}
	s.audit(ctx, o.ID, string(o.Status), "")
	return nil
}

// Get returns a single order by ID.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns the whole order history, newest first.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	// Stored oldest-first; the history view shows the latest order on top.
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}
	return orders, nil
}

// UpdateStatus moves an order to the next lifecycle state. Transitions out
// of Completed or Cancelled are rejected.
func (s *Service) UpdateStatus(ctx context.Context, id string, next Status) (Order, error) {
	if !next.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !o.Status.CanTransition(next) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.Status = next
	if err := s.repo.Update(ctx, o); err != nil {
		return Order{}, err
	}
	s.audit(ctx, o.ID, string(next), "")
	return o, nil
}

// Cancel transitions the order to Cancelled with the given reason. The
// reason is mandatory; an empty one is rejected before any write.
func (s *Service) Cancel(ctx context.Context, id, reason string) (Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return Order{}, ErrReasonRequired
	}

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}

	// An already-cancelled order without a reason can still have one
	// attached; the status does not move.
	if o.Status == StatusCancelled && o.CancellationReason == "" {
		o.CancellationReason = reason
		if err := s.repo.Update(ctx, o); err != nil {
			return Order{}, err
		}
		return o, nil
	}

	if !o.Status.CanTransition(StatusCancelled) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, StatusCancelled)
	}

	o.Status = StatusCancelled
	o.CancellationReason = reason
	if err := s.repo.Update(ctx, o); err != nil {
		return Order{}, err
	}
	s.audit(ctx, o.ID, string(StatusCancelled), reason)
	return o, nil
}

// Rate attaches a rating to a completed order. The status does not change;
// Completed stays terminal.
func (s *Service) Rate(ctx context.Context, id string, rating int) (Order, error) {
	if rating < 1 || rating > 5 {
		return Order{}, ErrInvalidRating
	}

	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if o.Status != StatusCompleted {
		return Order{}, ErrNotCompleted
	}

	o.Rating = rating
	if err := s.repo.Update(ctx, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Timeline returns the recorded transitions for one order, oldest first.
func (s *Service) Timeline(ctx context.Context, id string) ([]statuslog.Entry, error) {
	if s.statusLog == nil {
		return nil, nil
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.statusLog.Timeline(ctx, id)
}

func (s *Service) audit(ctx context.Context, orderID, status, note string) {
	if s.statusLog == nil {
		return
	}
	if err := s.statusLog.Append(ctx, statuslog.NewEntry(ctx, orderID, status, note)); err != nil {
		s.slog.ErrorContext(ctx, "status log append failed", "order_id", orderID, "status", status, "error", err)
	}
}
