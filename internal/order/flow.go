package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"eatorbit-client/internal/domain"
)

// State of the placement flow. Failed is not a resting state: a failed
// submission returns the flow to Confirmable so the user may retry.
type State string

const (
	StateReviewing   State = "REVIEWING"
	StateConfirmable State = "CONFIRMABLE"
	StateSubmitting  State = "SUBMITTING"
	StatePlaced      State = "PLACED"
)

var (
	// ErrSubmitInFlight means a place request is already outstanding; the new
	// one is a no-op, never a second submission.
	ErrSubmitInFlight = errors.New("order submission already in flight")
	// ErrPaymentNotConfirmed means the user has not ticked the payment
	// attestation; no network call is made.
	ErrPaymentNotConfirmed = errors.New("payment not confirmed")
	// ErrEmptyCart means there is nothing to order; the flow aborts back to
	// the cart view.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAlreadyPlaced means this flow instance finished; start a new one.
	ErrAlreadyPlaced = errors.New("order already placed")
)

// PlacementAPI is the slice of the backend the flow submits through.
type PlacementAPI interface {
	PlaceOrder(ctx context.Context, method domain.PaymentMethod) (domain.Order, error)
}

// CartView mirrors the synchronizer: the flow reads the local cart to gate
// submission and refreshes it after placement so stale items are not shown
// elsewhere.
type CartView interface {
	View() domain.Cart
	Fetch(ctx context.Context) (domain.Cart, error)
}

// Flow converts a confirmed cart into a placed order exactly once per
// user-initiated confirmation. The payment-confirmed gate is a manual
// attestation: the UPI payment happens out of band in a separate app, and the
// flow only records the user's claim that it happened. That trust boundary is
// deliberate; this is not a payment-verification protocol.
type Flow struct {
	api  PlacementAPI
	cart CartView
	log  *slog.Logger

	mu        sync.Mutex
	state     State
	confirmed bool
	placed    domain.Order
	reason    string
}

func NewFlow(api PlacementAPI, cart CartView, log *slog.Logger) *Flow {
	if log == nil {
		log = slog.Default()
	}
	return &Flow{api: api, cart: cart, log: log, state: StateReviewing}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetPaymentConfirmed toggles the attestation gate. It moves the flow between
// Reviewing and Confirmable; it is ignored while a submission is outstanding
// and after placement.
func (f *Flow) SetPaymentConfirmed(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting || f.state == StatePlaced {
		return
	}
	f.confirmed = v
	if v {
		f.state = StateConfirmable
	} else {
		f.state = StateReviewing
	}
}

// Place submits the order. Preconditions checked before any network call: the
// attestation gate is set and the local cart view is non-empty. A second call
// while one is outstanding is rejected client-side. On success the token is
// recorded, the flow becomes terminal, and the now-empty cart is re-fetched;
// on failure the flow returns to Confirmable carrying the server's reason
// verbatim.
func (f *Flow) Place(ctx context.Context, method domain.PaymentMethod) (domain.Order, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return domain.Order{}, ErrSubmitInFlight
	case StatePlaced:
		f.mu.Unlock()
		return domain.Order{}, ErrAlreadyPlaced
	}
	if !f.confirmed {
		f.mu.Unlock()
		return domain.Order{}, ErrPaymentNotConfirmed
	}
	if f.cart.View().IsEmpty() {
		// Abort back to the cart view; the attestation is stale once the
		// cart has to be rebuilt, so it is re-taken.
		f.state = StateReviewing
		f.confirmed = false
		f.mu.Unlock()
		return domain.Order{}, ErrEmptyCart
	}
	f.state = StateSubmitting
	f.reason = ""
	f.mu.Unlock()

	o, err := f.api.PlaceOrder(ctx, method)
	f.mu.Lock()
	if err != nil {
		f.state = StateConfirmable
		f.reason = err.Error()
		f.mu.Unlock()
		f.log.Warn("order placement failed", "err", err)
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}
	f.state = StatePlaced
	f.placed = o
	f.mu.Unlock()

	if _, err := f.cart.Fetch(ctx); err != nil {
		f.log.Warn("cart refresh after placement failed", "err", err)
	}
	return o, nil
}

// Token returns the placed order's token number, once there is one.
func (f *Flow) Token() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StatePlaced {
		return "", false
	}
	return f.placed.TokenNumber, true
}

// FailureReason is the server's verbatim message from the last failed
// submission, cleared when a new submission starts.
func (f *Flow) FailureReason() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reason
}
