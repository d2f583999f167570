// Package modal tracks which overlay the storefront session is showing.
//
// The state is a single tagged variant rather than a set of independent
// boolean flags, so two primary modals being open at once is
// unrepresentable by construction.
package modal

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind tags the active modal variant.
type Kind int

const (
	KindNone Kind = iota
	KindCart
	KindProfile
	KindAuth
	KindFlavourPicker
)

// AuthVariant selects which authentication form the auth modal shows.
type AuthVariant string

const (
	AuthSignIn        AuthVariant = "sign-in"
	AuthSignUp        AuthVariant = "sign-up"
	AuthResetPassword AuthVariant = "reset-password"
)

// State is the tagged modal variant. The zero value is closed.
type State struct {
	kind Kind

	// authVariant is meaningful only when kind == KindAuth.
	authVariant AuthVariant

	// product is meaningful only when kind == KindFlavourPicker.
	product string
}

func Closed() State                { return State{} }
func CartOpen() State              { return State{kind: KindCart} }
func ProfileOpen() State           { return State{kind: KindProfile} }
func AuthOpen(v AuthVariant) State { return State{kind: KindAuth, authVariant: v} }

func FlavourPicker(product string) State {
	return State{kind: KindFlavourPicker, product: product}
}

func (s State) Kind() Kind               { return s.kind }
func (s State) AuthVariant() AuthVariant { return s.authVariant }
func (s State) Product() string          { return s.product }

// ToastTTL is how long a toast stays visible before auto-dismissing.
const ToastTTL = 1800 * time.Millisecond

// Toast is a transient notice ("Added to cart") with an expiry. The ID lets
// a client dismiss one toast early without racing the TTL.
type Toast struct {
	ID      string
	Message string
	Until   time.Time
}

// Orchestrator holds the session's modal state and active toasts. Showing a
// modal replaces whatever was open; there is never more than one.
type Orchestrator struct {
	mu     sync.Mutex
	state  State
	toasts []Toast
	now    func() time.Time
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{now: time.Now}
}

// Show replaces the active modal.
func (o *Orchestrator) Show(s State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = s
}

// Dismiss closes the active modal, if any.
func (o *Orchestrator) Dismiss() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = Closed()
}

// Active returns the current modal state.
func (o *Orchestrator) Active() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// BackdropVisible reports whether the shared dimming backdrop is shown:
// true whenever any modal is open.
func (o *Orchestrator) BackdropVisible() bool {
	return o.Active().kind != KindNone
}

// PushToast queues a transient notice with the standard TTL and returns its
// ID.
func (o *Orchestrator) PushToast(message string) string {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := uuid.NewString()
	o.toasts = append(o.toasts, Toast{
		ID:      id,
		Message: message,
		Until:   o.now().Add(ToastTTL),
	})
	return id
}

// DismissToast removes the toast with the given ID before its TTL elapses.
// It reports whether the toast was still present.
func (o *Orchestrator) DismissToast(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, t := range o.toasts {
		if t.ID == id {
			o.toasts = append(o.toasts[:i], o.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// ActiveToasts returns the notices that have not expired yet, pruning the
// rest.
func (o *Orchestrator) ActiveToasts() []Toast {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now()
	kept := o.toasts[:0]
	for _, t := range o.toasts {
		if t.Until.After(now) {
			kept = append(kept, t)
		}
	}
	o.toasts = kept

	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}
