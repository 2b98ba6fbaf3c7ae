package devserver

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"eatorbit-client/internal/domain"
)

type ErrNotFound string

func (e ErrNotFound) Error() string { return string(e) + " not found" }

type ErrBadRequest string

func (e ErrBadRequest) Error() string { return string(e) }

type ErrConflict string

func (e ErrConflict) Error() string { return string(e) }

// Service implements the marketplace semantics on top of a Store: carts are
// per-customer and single-outlet, the server owns pricing, orders freeze an
// item snapshot and statuses only move forward.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CartDTO renders a customer's cart with line totals recomputed from current
// menu prices. Lines whose food item has been deleted are skipped.
func (s *Service) CartDTO(customerID int64) (domain.Cart, error) {
	rec, ok := s.store.CartByCustomer(customerID)
	if !ok {
		return domain.Cart{}, ErrNotFound("cart")
	}
	return s.render(rec), nil
}

func (s *Service) render(rec *CartRecord) domain.Cart {
	out := domain.Cart{
		CartID:   rec.CartID,
		OutletID: rec.OutletID,
		Items:    []domain.CartItem{},
	}
	for _, ln := range rec.Lines {
		food, ok := s.store.Food(ln.FoodID)
		if !ok {
			continue
		}
		line := domain.CartItem{
			CartItemID: ln.CartItemID,
			FoodID:     ln.FoodID,
			FoodName:   food.FoodName,
			Quantity:   ln.Quantity,
			TotalPrice: food.Price * float64(ln.Quantity),
		}
		out.Items = append(out.Items, line)
		out.TotalAmount += line.TotalPrice
	}
	return out
}

// AddToCart creates or adjusts the line for foodID. quantity is a signed
// delta; a delta that empties a line removes it. Adding from a different
// outlet than the current cart's clears the cart first.
func (s *Service) AddToCart(customerID, foodID int64, quantity int) (domain.Cart, error) {
	food, ok := s.store.Food(foodID)
	if !ok {
		return domain.Cart{}, ErrNotFound("food item")
	}
	if !food.Available {
		return domain.Cart{}, ErrBadRequest("item is currently unavailable")
	}
	rec, ok := s.store.CartByCustomer(customerID)
	if !ok {
		rec = &CartRecord{
			CartID:     s.store.NextID("cart"),
			CustomerID: customerID,
			OutletID:   food.OutletID,
		}
	}
	if len(rec.Lines) > 0 && rec.OutletID != food.OutletID {
		rec.Lines = nil
	}
	rec.OutletID = food.OutletID

	idx := -1
	for i, ln := range rec.Lines {
		if ln.FoodID == foodID {
			idx = i
			break
		}
	}
	switch {
	case idx >= 0:
		rec.Lines[idx].Quantity += quantity
		if rec.Lines[idx].Quantity <= 0 {
			rec.Lines = append(rec.Lines[:idx], rec.Lines[idx+1:]...)
		}
	case quantity < 1:
		return domain.Cart{}, ErrBadRequest("quantity must be positive")
	default:
		rec.Lines = append(rec.Lines, CartLine{
			CartItemID: s.store.NextID("cart_item"),
			FoodID:     foodID,
			Quantity:   quantity,
		})
	}
	if err := s.store.PutCart(rec); err != nil {
		return domain.Cart{}, err
	}
	return s.render(rec), nil
}

func (s *Service) RemoveCartItem(customerID, cartItemID int64) (domain.Cart, error) {
	rec, ok := s.store.CartByCustomer(customerID)
	if !ok {
		return domain.Cart{}, ErrNotFound("cart")
	}
	idx := -1
	for i, ln := range rec.Lines {
		if ln.CartItemID == cartItemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Cart{}, ErrNotFound("cart item")
	}
	rec.Lines = append(rec.Lines[:idx], rec.Lines[idx+1:]...)
	if err := s.store.PutCart(rec); err != nil {
		return domain.Cart{}, err
	}
	return s.render(rec), nil
}

// PlaceOrder converts the customer's cart into an order atomically: items are
// snapshotted at current prices, a token number is issued and the cart is
// cleared.
func (s *Service) PlaceOrder(customerID int64, method domain.PaymentMethod) (domain.Order, error) {
	rec, ok := s.store.CartByCustomer(customerID)
	if !ok || len(rec.Lines) == 0 {
		return domain.Order{}, ErrBadRequest("cart is empty")
	}
	outlet, ok := s.store.Outlet(rec.OutletID)
	if !ok {
		return domain.Order{}, ErrBadRequest("cart outlet information is missing")
	}
	cart := s.render(rec)
	if len(cart.Items) == 0 {
		return domain.Order{}, ErrBadRequest("cart is empty")
	}
	if method == "" {
		method = domain.PaymentUPI
	}
	o := &OrderRecord{
		Order: domain.Order{
			OrderID:       s.store.NextID("order"),
			TokenNumber:   generateToken(),
			OutletName:    outlet.OutletName,
			Status:        domain.OrderPlaced,
			TotalAmount:   cart.TotalAmount,
			PaymentStatus: domain.PaymentPending,
			CreatedAt:     time.Now().UTC(),
		},
		CustomerID: customerID,
		OutletID:   rec.OutletID,
	}
	for _, it := range cart.Items {
		o.Items = append(o.Items, domain.OrderItem{
			FoodName:   it.FoodName,
			Quantity:   it.Quantity,
			TotalPrice: it.TotalPrice,
		})
	}
	if err := s.store.PutOrder(o); err != nil {
		return domain.Order{}, err
	}
	if err := s.store.DeleteCart(customerID); err != nil {
		return domain.Order{}, err
	}
	return o.Order, nil
}

func (s *Service) TrackOrder(token string) (domain.Order, error) {
	o, ok := s.store.OrderByToken(strings.TrimSpace(token))
	if !ok {
		return domain.Order{}, ErrNotFound("order")
	}
	return o.Order, nil
}

func (s *Service) OrdersByCustomer(customerID int64) []domain.Order {
	recs := s.store.ListOrdersByCustomer(customerID)
	out := make([]domain.Order, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Order)
	}
	return out
}

// UpdateOrderStatus applies an owner-driven transition, rejecting anything
// that would move backwards or out of a terminal status.
func (s *Service) UpdateOrderStatus(orderID int64, status domain.OrderStatus) (domain.Order, error) {
	o, ok := s.store.Order(orderID)
	if !ok {
		return domain.Order{}, ErrNotFound("order")
	}
	if !o.Status.CanTransition(status) {
		return domain.Order{}, ErrConflict("invalid status transition " + string(o.Status) + " -> " + string(status))
	}
	o.Status = status
	if status == domain.OrderDelivered {
		o.PaymentStatus = domain.PaymentCompleted
	}
	if err := s.store.PutOrder(o); err != nil {
		return domain.Order{}, err
	}
	return o.Order, nil
}

func generateToken() string {
	return "TKN-" + strings.ToUpper(uuid.NewString()[:8])
}
