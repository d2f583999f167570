// Package order holds the order history: immutable cart snapshots with a
// mutable lifecycle status.
package order

import (
	"crypto/rand"
	"errors"
	"time"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusRequested  Status = "Order Requested"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusCancelled  Status = "Cancelled"
)

// ErrInvalidTransition is returned when a status change is not permitted by
// the lifecycle. Completed and Cancelled are terminal.
var ErrInvalidTransition = errors.New("order: invalid status transition")

// transitions is the full lifecycle:
//
//	Requested  -> InProgress | Cancelled
//	InProgress -> Completed  | Cancelled
//	Completed, Cancelled: terminal
var transitions = map[Status][]Status{
	StatusRequested:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is one of the four lifecycle states.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the lifecycle permits moving from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status change is possible.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// Item is one immutable line of an order: the product as it was priced at
// checkout time. Later catalog changes never touch past orders.
type Item struct {
	Name       string   `json:"name"`
	Quantity   int      `json:"quantity"`
	Flavours   []string `json:"flavours,omitempty"`
	MRP        float64  `json:"mrp"`
	UnitPrice  float64  `json:"unit_price"` // discounted price + flavour add-ons
	Subtotal   float64  `json:"subtotal"`   // UnitPrice * Quantity
	CoverImage string   `json:"cover_image,omitempty"`
}

// Contact is the customer contact attached to the order at checkout.
type Contact struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order is a finalized cart snapshot plus its lifecycle status. Orders are
// append-only: they are never deleted, only transitioned.
type Order struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	Items  []Item    `json:"items"`
	Status Status    `json:"status"`

	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	GST      float64 `json:"gst"`
	Total    float64 `json:"total"`

	Rating             int     `json:"rating,omitempty"`
	CancellationReason string  `json:"cancellation_reason,omitempty"`
	Contact            Contact `json:"contact"`
}

const (
	idPrefix   = "CS"
	idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 10
)

// NewID generates an order identifier: "CS" followed by ten random
// alphanumerics. Collisions are not guarded against; the ID is a customer
// reference, not a database key constraint.
func NewID() string {
	buf := make([]byte, idLength)
	// crypto/rand.Read never fails on supported platforms.
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return idPrefix + string(buf)
}
