package order

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eatorbit-client/internal/api"
	"eatorbit-client/internal/domain"
)

type fakePlacement struct {
	mu    sync.Mutex
	calls int
	err   error
	order domain.Order
	gate  chan struct{} // when set, PlaceOrder blocks until it closes
}

func (p *fakePlacement) PlaceOrder(ctx context.Context, method domain.PaymentMethod) (domain.Order, error) {
	p.mu.Lock()
	p.calls++
	gate := p.gate
	p.mu.Unlock()
	if gate != nil {
		<-gate
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return domain.Order{}, p.err
	}
	return p.order, nil
}

type fakeCartView struct {
	mu         sync.Mutex
	cart       domain.Cart
	fetchCalls int
}

func (v *fakeCartView) View() domain.Cart {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cart.Clone()
}

func (v *fakeCartView) Fetch(ctx context.Context) (domain.Cart, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.fetchCalls++
	v.cart = domain.EmptyCart()
	return v.cart.Clone(), nil
}

func loadedCart() domain.Cart {
	return domain.Cart{
		CartID:   7,
		OutletID: 1,
		Items: []domain.CartItem{
			{CartItemID: 1, FoodID: 10, FoodName: "Samosa", Quantity: 2, TotalPrice: 40},
		},
		TotalAmount: 40,
	}
}

func TestPlaceRequiresPaymentAttestation(t *testing.T) {
	p := &fakePlacement{}
	f := NewFlow(p, &fakeCartView{cart: loadedCart()}, nil)

	if _, err := f.Place(context.Background(), domain.PaymentUPI); !errors.Is(err, ErrPaymentNotConfirmed) {
		t.Fatalf("expected ErrPaymentNotConfirmed, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("server saw %d submissions, want 0", p.calls)
	}
	if f.State() != StateReviewing {
		t.Fatalf("state = %s, want %s", f.State(), StateReviewing)
	}
}

func TestPlaceRefusesEmptyCart(t *testing.T) {
	p := &fakePlacement{}
	f := NewFlow(p, &fakeCartView{cart: domain.EmptyCart()}, nil)
	f.SetPaymentConfirmed(true)

	if _, err := f.Place(context.Background(), domain.PaymentUPI); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("server saw %d submissions, want 0", p.calls)
	}
}

func TestEmptyCartAbortRequiresFreshAttestation(t *testing.T) {
	cv := &fakeCartView{cart: domain.EmptyCart()}
	p := &fakePlacement{order: domain.Order{TokenNumber: "TKN-00000003"}}
	f := NewFlow(p, cv, nil)
	f.SetPaymentConfirmed(true)

	if _, err := f.Place(context.Background(), domain.PaymentUPI); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if f.State() != StateReviewing {
		t.Fatalf("state = %s, want %s", f.State(), StateReviewing)
	}

	// Refilling the cart alone must not make the flow submittable.
	cv.mu.Lock()
	cv.cart = loadedCart()
	cv.mu.Unlock()
	if _, err := f.Place(context.Background(), domain.PaymentUPI); !errors.Is(err, ErrPaymentNotConfirmed) {
		t.Fatalf("expected ErrPaymentNotConfirmed, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("server saw %d submissions, want 0", p.calls)
	}

	f.SetPaymentConfirmed(true)
	if _, err := f.Place(context.Background(), domain.PaymentUPI); err != nil {
		t.Fatalf("Place after re-attestation: %v", err)
	}
}

func TestPlaceSucceedsAndRefreshesCart(t *testing.T) {
	cv := &fakeCartView{cart: loadedCart()}
	p := &fakePlacement{order: domain.Order{OrderID: 1, TokenNumber: "TKN-4F2A9B01", Status: domain.OrderPlaced}}
	f := NewFlow(p, cv, nil)
	f.SetPaymentConfirmed(true)

	o, err := f.Place(context.Background(), domain.PaymentUPI)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if o.TokenNumber != "TKN-4F2A9B01" {
		t.Fatalf("token = %q", o.TokenNumber)
	}
	if f.State() != StatePlaced {
		t.Fatalf("state = %s, want %s", f.State(), StatePlaced)
	}
	if tok, ok := f.Token(); !ok || tok != "TKN-4F2A9B01" {
		t.Fatalf("Token() = %q, %v", tok, ok)
	}
	if cv.fetchCalls != 1 {
		t.Fatalf("cart refreshed %d times, want 1", cv.fetchCalls)
	}
}

func TestPlaceFailureReturnsToConfirmableWithServerReason(t *testing.T) {
	cv := &fakeCartView{cart: loadedCart()}
	p := &fakePlacement{err: &api.APIError{Status: 400, Message: "Cart is empty"}}
	f := NewFlow(p, cv, nil)
	f.SetPaymentConfirmed(true)

	if _, err := f.Place(context.Background(), domain.PaymentUPI); err == nil {
		t.Fatal("expected an error")
	}
	if f.State() != StateConfirmable {
		t.Fatalf("state = %s, want %s", f.State(), StateConfirmable)
	}
	if got := f.FailureReason(); got != "Cart is empty" {
		t.Fatalf("reason = %q, want server message verbatim", got)
	}
	if _, ok := f.Token(); ok {
		t.Fatal("no token should exist after a failed submission")
	}

	// The user may retry the same flow.
	p.mu.Lock()
	p.err = nil
	p.order = domain.Order{TokenNumber: "TKN-00000001"}
	p.mu.Unlock()
	if _, err := f.Place(context.Background(), domain.PaymentUPI); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if f.FailureReason() != "" {
		t.Fatalf("reason not cleared on retry: %q", f.FailureReason())
	}
}

func TestDoublePlaceSubmitsOnce(t *testing.T) {
	cv := &fakeCartView{cart: loadedCart()}
	p := &fakePlacement{order: domain.Order{TokenNumber: "TKN-00000002"}, gate: make(chan struct{})}
	f := NewFlow(p, cv, nil)
	f.SetPaymentConfirmed(true)

	done := make(chan error, 1)
	go func() {
		_, err := f.Place(context.Background(), domain.PaymentUPI)
		done <- err
	}()
	waitForState(t, f, StateSubmitting)

	if _, err := f.Place(context.Background(), domain.PaymentUPI); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("expected ErrSubmitInFlight, got %v", err)
	}
	// The attestation gate cannot be flipped mid-submission.
	f.SetPaymentConfirmed(false)
	if f.State() != StateSubmitting {
		t.Fatalf("state = %s, want %s", f.State(), StateSubmitting)
	}

	close(p.gate)
	if err := <-done; err != nil {
		t.Fatalf("Place: %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("server saw %d submissions, want 1", p.calls)
	}
	if _, err := f.Place(context.Background(), domain.PaymentUPI); !errors.Is(err, ErrAlreadyPlaced) {
		t.Fatalf("expected ErrAlreadyPlaced, got %v", err)
	}
}

func waitForState(t *testing.T, f *Flow, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if f.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("state never reached %s", want)
}
