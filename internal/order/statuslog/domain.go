// Package statuslog records every order status transition as an append-only
// audit trail. It serves two purposes:
//
//  1. The order-status timeline shown to the customer is rendered straight
//     from this log.
//
//  2. Each entry carries the OTel trace_id active when it was written, so a
//     row can be correlated with the full request trace.
package statuslog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Entry is a single status transition event for one order.
type Entry struct {
	// OrderID joins the entry with the order history.
	OrderID string

	// Status is the lifecycle state the order entered.
	Status string

	// Note carries transition context: the cancellation reason, or the
	// actor for admin transitions. Empty for plain transitions.
	Note string

	// TraceID is the W3C trace ID (32 hex chars) of the span active when
	// this entry was written. Empty when no span was active (unit tests).
	TraceID string

	// SpanID pinpoints the exact request within the trace.
	SpanID string

	// At is the wall-clock time of the transition.
	At time.Time
}

// NewEntry builds an Entry with trace identifiers extracted from ctx.
func NewEntry(ctx context.Context, orderID, status, note string) *Entry {
	entry := &Entry{
		OrderID: orderID,
		Status:  status,
		Note:    note,
		At:      time.Now().UTC(),
	}

	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
