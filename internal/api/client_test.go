package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eatorbit-client/internal/domain"
)

type staticCreds struct{ token string }

func (c staticCreds) Token() (string, bool) { return c.token, c.token != "" }

func TestAuthedCallAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.Cart{CartID: 1, Items: []domain.CartItem{}})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Creds: staticCreds{token: "tok123"}}
	if _, err := c.Cart(context.Background()); err != nil {
		t.Fatalf("Cart: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestAuthedCallWithoutCredentialShortCircuits(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Creds: staticCreds{}}
	_, err := c.Cart(context.Background())
	if !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if called {
		t.Fatal("no request should have been sent")
	}
	if !IsUnauthorized(err) {
		t.Fatal("ErrNoCredential must classify as unauthorized")
	}
}

func TestNotFoundCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "Order not found"})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.TrackOrder(context.Background(), "TKN-NOPE")
	if !IsNotFound(err) {
		t.Fatalf("expected a not-found error, got %v", err)
	}
	if err.Error() != "Order not found" {
		t.Fatalf("message = %q, want server message verbatim", err.Error())
	}
}

func TestRejectionPreservesReasonAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Cart is empty"})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Creds: staticCreds{token: "tok"}}
	_, err := c.PlaceOrder(context.Background(), domain.PaymentUPI)
	var ae *APIError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if ae.Status != 400 || ae.Message != "Cart is empty" {
		t.Fatalf("got %+v", ae)
	}
	if IsNotFound(err) {
		t.Fatal("a 400 is not a not-found")
	}
}

func TestNestedErrorBodyIsUnwrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"vendor approval pending"}}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.Login(context.Background(), "o@x", "pw")
	var ae *APIError
	if !errors.As(err, &ae) || ae.Message != "vendor approval pending" {
		t.Fatalf("got %v", err)
	}
	if !IsUnauthorized(err) {
		t.Fatal("a 403 must classify as unauthorized")
	}
}

func TestAddToCartSendsSignedDelta(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(domain.Cart{})
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL, Creds: staticCreds{token: "tok"}}
	if _, err := c.AddToCart(context.Background(), 10, -1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if got["foodItemId"] != float64(10) || got["quantity"] != float64(-1) {
		t.Fatalf("body = %v", got)
	}
}

func TestTransportFailureIsNeitherNotFoundNorRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nobody home

	c := &Client{BaseURL: srv.URL}
	_, err := c.Outlets(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if IsNotFound(err) || IsUnauthorized(err) {
		t.Fatalf("transport failure misclassified: %v", err)
	}
	var ae *APIError
	if errors.As(err, &ae) {
		t.Fatalf("transport failure became APIError: %v", err)
	}
}
