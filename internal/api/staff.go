package api

import (
	"context"
	"fmt"
	"net/http"

	"eatorbit-client/internal/domain"
)

// Owner-side surface: outlet owners manage their menu, watch incoming orders
// and drive status transitions; customers never call these.

type statusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type FoodItemRequest struct {
	OutletID    int64   `json:"outletId"`
	FoodName    string  `json:"foodName"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

func (c *Client) OwnerOutlets(ctx context.Context) ([]domain.Outlet, error) {
	var out []domain.Outlet
	err := c.do(ctx, http.MethodGet, "/api/owner/outlets", nil, &out, true)
	return out, err
}

func (c *Client) CreateOutlet(ctx context.Context, o domain.Outlet) (domain.Outlet, error) {
	var out domain.Outlet
	err := c.do(ctx, http.MethodPost, "/api/owner/outlets", o, &out, true)
	return out, err
}

func (c *Client) UpdateOutlet(ctx context.Context, o domain.Outlet) (domain.Outlet, error) {
	var out domain.Outlet
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/owner/outlets/%d", o.OutletID), o, &out, true)
	return out, err
}

func (c *Client) OwnerFoods(ctx context.Context, outletID int64) ([]domain.FoodItem, error) {
	var out []domain.FoodItem
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/owner/foods?outletId=%d", outletID), nil, &out, true)
	return out, err
}

func (c *Client) AddFood(ctx context.Context, req FoodItemRequest) (domain.FoodItem, error) {
	var out domain.FoodItem
	err := c.do(ctx, http.MethodPost, "/api/owner/foods", req, &out, true)
	return out, err
}

func (c *Client) UpdateFood(ctx context.Context, foodID int64, req FoodItemRequest) (domain.FoodItem, error) {
	var out domain.FoodItem
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/owner/foods/%d", foodID), req, &out, true)
	return out, err
}

func (c *Client) DeleteFood(ctx context.Context, foodID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/owner/foods/%d", foodID), nil, nil, true)
}

func (c *Client) OwnerOrders(ctx context.Context, outletID int64) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/owner/orders?outletId=%d", outletID), nil, &out, true)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (domain.Order, error) {
	var out domain.Order
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/owner/orders/%d/status", orderID), statusRequest{Status: status}, &out, true)
	return out, err
}

func (c *Client) UpiQR(ctx context.Context, outletID int64) (domain.UpiQR, error) {
	var out domain.UpiQR
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/owner/upi-qr?outletId=%d", outletID), nil, &out, true)
	return out, err
}

func (c *Client) SetUpiQR(ctx context.Context, qr domain.UpiQR) (domain.UpiQR, error) {
	var out domain.UpiQR
	err := c.do(ctx, http.MethodPost, "/api/owner/upi-qr", qr, &out, true)
	return out, err
}

// Admin surface.

func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, &out, true)
	return out, err
}

func (c *Client) PendingVendors(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := c.do(ctx, http.MethodGet, "/api/admin/pending-vendors", nil, &out, true)
	return out, err
}

func (c *Client) ApproveVendor(ctx context.Context, vendorID int64) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/admin/vendors/%d/approve", vendorID), nil, &out, true)
	return out, err
}

func (c *Client) RejectVendor(ctx context.Context, vendorID int64) (domain.User, error) {
	var out domain.User
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/admin/vendors/%d/reject", vendorID), nil, &out, true)
	return out, err
}

func (c *Client) AdminOutlets(ctx context.Context) ([]domain.Outlet, error) {
	var out []domain.Outlet
	err := c.do(ctx, http.MethodGet, "/api/admin/outlets", nil, &out, true)
	return out, err
}

func (c *Client) AdminOrders(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := c.do(ctx, http.MethodGet, "/api/admin/orders", nil, &out, true)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/admin/users/%d", userID), nil, nil, true)
}
