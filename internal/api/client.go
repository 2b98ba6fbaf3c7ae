package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"eatorbit-client/internal/domain"
)

// CredentialSource supplies the bearer credential scoped to the current
// identity. ok is false when nobody is signed in or the credential expired.
type CredentialSource interface {
	Token() (token string, ok bool)
}

// Client talks JSON-over-HTTP to the food-ordering backend. One method per
// endpoint; authenticated methods short-circuit with ErrNoCredential when the
// credential source is empty.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Creds   CredentialSource
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	domain.User
}

type RegisterRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

type cartItemRequest struct {
	FoodItemID int64 `json:"foodItemId"`
	Quantity   int   `json:"quantity"`
}

type orderRequest struct {
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", LoginRequest{Email: email, Password: password}, &out, false)
	return out, err
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out, false)
	return out, err
}

func (c *Client) Outlets(ctx context.Context) ([]domain.Outlet, error) {
	var out []domain.Outlet
	err := c.do(ctx, http.MethodGet, "/api/outlets", nil, &out, false)
	return out, err
}

func (c *Client) Menu(ctx context.Context, outletID int64) ([]domain.FoodItem, error) {
	var out []domain.FoodItem
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/outlets/%d/menu", outletID), nil, &out, false)
	return out, err
}

// Cart fetches the authoritative cart. A customer without a cart yet gets a
// NotFoundError; callers that want the empty-cart shape map it themselves.
func (c *Client) Cart(ctx context.Context) (domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, http.MethodGet, "/api/cart", nil, &out, true)
	return out, err
}

// AddToCart creates or adjusts the line for foodID. quantity may be a signed
// delta against an existing line.
func (c *Client) AddToCart(ctx context.Context, foodID int64, quantity int) (domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, http.MethodPost, "/api/cart/add", cartItemRequest{FoodItemID: foodID, Quantity: quantity}, &out, true)
	return out, err
}

func (c *Client) RemoveCartItem(ctx context.Context, cartItemID int64) (domain.Cart, error) {
	var out domain.Cart
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/cart/item/%d", cartItemID), nil, &out, true)
	return out, err
}

func (c *Client) PlaceOrder(ctx context.Context, method domain.PaymentMethod) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodPost, "/api/order/place", orderRequest{PaymentMethod: method}, &out, true)
	return out, err
}

// TrackOrder is idempotent; an unknown token yields a NotFoundError.
func (c *Client) TrackOrder(ctx context.Context, token string) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodGet, "/api/order/track/"+strings.TrimSpace(token), nil, &out, false)
	return out, err
}

func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, http.MethodGet, "/api/customer/orders", nil, &out, true)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var tok string
	if authed {
		if c.Creds == nil {
			return ErrNoCredential
		}
		var ok bool
		tok, ok = c.Creds.Token()
		if !ok {
			return ErrNoCredential
		}
	}
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(raw)
	}
	u := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	hc := c.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return NotFoundError(errMessage(raw, "not found"))
	}
	if resp.StatusCode >= 400 {
		return &APIError{Status: resp.StatusCode, Message: errMessage(raw, "")}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// errMessage digs the server's reason out of the error body. The backend
// answers either {"message": "..."} or {"error": {"message": "..."}}.
func errMessage(raw []byte, fallback string) string {
	var flat struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &flat); err == nil {
		if flat.Message != "" {
			return flat.Message
		}
		if flat.Error.Message != "" {
			return flat.Error.Message
		}
	}
	if fallback != "" {
		return fallback
	}
	return strings.TrimSpace(string(raw))
}
