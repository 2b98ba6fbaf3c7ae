package devserver

import (
	"errors"
	"strings"
	"testing"

	"eatorbit-client/internal/domain"
)

// fixture builds a store with one owner, two outlets and a small menu.
func fixture(t *testing.T) (Store, *Service, fixtureIDs) {
	t.Helper()
	st := NewMemoryStore()
	svc := NewService(st)

	owner := &User{User: domain.User{UserID: st.NextID("user"), Name: "Owner", Email: "o@x", Role: domain.RoleOwner, Status: domain.UserActive}}
	customer := &User{User: domain.User{UserID: st.NextID("user"), Name: "Customer", Email: "c@x", Role: domain.RoleCustomer, Status: domain.UserActive}}
	for _, u := range []*User{owner, customer} {
		if err := st.PutUser(u); err != nil {
			t.Fatalf("PutUser: %v", err)
		}
	}

	canteen := &domain.Outlet{OutletID: st.NextID("outlet"), OutletName: "Main Canteen", OwnerID: owner.UserID, Approved: true}
	juice := &domain.Outlet{OutletID: st.NextID("outlet"), OutletName: "Juice Corner", OwnerID: owner.UserID, Approved: true}
	for _, o := range []*domain.Outlet{canteen, juice} {
		if err := st.PutOutlet(o); err != nil {
			t.Fatalf("PutOutlet: %v", err)
		}
	}

	samosa := &domain.FoodItem{FoodID: st.NextID("food"), FoodName: "Samosa", Price: 20, Available: true, OutletID: canteen.OutletID}
	chai := &domain.FoodItem{FoodID: st.NextID("food"), FoodName: "Chai", Price: 10, Available: false, OutletID: canteen.OutletID}
	oj := &domain.FoodItem{FoodID: st.NextID("food"), FoodName: "Orange Juice", Price: 40, Available: true, OutletID: juice.OutletID}
	for _, f := range []*domain.FoodItem{samosa, chai, oj} {
		if err := st.PutFood(f); err != nil {
			t.Fatalf("PutFood: %v", err)
		}
	}

	return st, svc, fixtureIDs{
		owner:    owner.UserID,
		customer: customer.UserID,
		canteen:  canteen.OutletID,
		juice:    juice.OutletID,
		samosa:   samosa.FoodID,
		chai:     chai.FoodID,
		oj:       oj.FoodID,
	}
}

type fixtureIDs struct {
	owner, customer  int64
	canteen, juice   int64
	samosa, chai, oj int64
}

func TestAddToCartSignedDeltas(t *testing.T) {
	_, svc, ids := fixture(t)

	c, err := svc.AddToCart(ids.customer, ids.samosa, 2)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if len(c.Items) != 1 || c.Items[0].Quantity != 2 || c.TotalAmount != 40 {
		t.Fatalf("cart = %+v", c)
	}

	c, err = svc.AddToCart(ids.customer, ids.samosa, -1)
	if err != nil {
		t.Fatalf("AddToCart delta: %v", err)
	}
	if c.Items[0].Quantity != 1 || c.TotalAmount != 20 {
		t.Fatalf("cart = %+v", c)
	}

	// A delta that empties the line removes it.
	c, err = svc.AddToCart(ids.customer, ids.samosa, -1)
	if err != nil {
		t.Fatalf("AddToCart to zero: %v", err)
	}
	if len(c.Items) != 0 {
		t.Fatalf("line survived: %+v", c)
	}

	// A new line cannot start below one.
	if _, err := svc.AddToCart(ids.customer, ids.samosa, -1); err == nil {
		t.Fatal("expected a rejection")
	}
}

func TestAddToCartRejectsUnavailableItem(t *testing.T) {
	_, svc, ids := fixture(t)

	_, err := svc.AddToCart(ids.customer, ids.chai, 1)
	var br ErrBadRequest
	if !errors.As(err, &br) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestCrossOutletAddClearsCart(t *testing.T) {
	_, svc, ids := fixture(t)

	if _, err := svc.AddToCart(ids.customer, ids.samosa, 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	c, err := svc.AddToCart(ids.customer, ids.oj, 1)
	if err != nil {
		t.Fatalf("AddToCart other outlet: %v", err)
	}
	if c.OutletID != ids.juice {
		t.Fatalf("outlet = %d, want %d", c.OutletID, ids.juice)
	}
	if len(c.Items) != 1 || c.Items[0].FoodName != "Orange Juice" {
		t.Fatalf("old outlet's items survived: %+v", c)
	}
}

func TestCartPricesFollowMenu(t *testing.T) {
	st, svc, ids := fixture(t)

	if _, err := svc.AddToCart(ids.customer, ids.samosa, 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	f, _ := st.Food(ids.samosa)
	f.Price = 25
	if err := st.PutFood(f); err != nil {
		t.Fatalf("PutFood: %v", err)
	}

	c, err := svc.CartDTO(ids.customer)
	if err != nil {
		t.Fatalf("CartDTO: %v", err)
	}
	if c.Items[0].TotalPrice != 50 || c.TotalAmount != 50 {
		t.Fatalf("cart did not reprice: %+v", c)
	}
}

func TestPlaceOrderFreezesSnapshotAndClearsCart(t *testing.T) {
	st, svc, ids := fixture(t)

	if _, err := svc.AddToCart(ids.customer, ids.samosa, 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	o, err := svc.PlaceOrder(ids.customer, domain.PaymentUPI)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if !strings.HasPrefix(o.TokenNumber, "TKN-") || len(o.TokenNumber) != 12 {
		t.Fatalf("token = %q", o.TokenNumber)
	}
	if o.Status != domain.OrderPlaced || o.PaymentStatus != domain.PaymentPending {
		t.Fatalf("order = %+v", o)
	}
	if o.TotalAmount != 40 || len(o.Items) != 1 || o.Items[0].FoodName != "Samosa" {
		t.Fatalf("order = %+v", o)
	}

	// The cart is gone.
	if _, err := svc.CartDTO(ids.customer); !errors.As(err, new(ErrNotFound)) {
		t.Fatalf("expected cart gone, got %v", err)
	}

	// Later menu edits do not touch the placed order.
	f, _ := st.Food(ids.samosa)
	f.Price = 100
	if err := st.PutFood(f); err != nil {
		t.Fatalf("PutFood: %v", err)
	}
	got, err := svc.TrackOrder(o.TokenNumber)
	if err != nil {
		t.Fatalf("TrackOrder: %v", err)
	}
	if got.TotalAmount != 40 || got.Items[0].TotalPrice != 40 {
		t.Fatalf("order snapshot drifted: %+v", got)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	_, svc, ids := fixture(t)

	_, err := svc.PlaceOrder(ids.customer, domain.PaymentUPI)
	var br ErrBadRequest
	if !errors.As(err, &br) || br.Error() != "cart is empty" {
		t.Fatalf("expected 'cart is empty', got %v", err)
	}
}

func TestTrackUnknownToken(t *testing.T) {
	_, svc, _ := fixture(t)
	if _, err := svc.TrackOrder("ORD99999"); !errors.As(err, new(ErrNotFound)) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestOrderStatusIsMonotonic(t *testing.T) {
	_, svc, ids := fixture(t)
	if _, err := svc.AddToCart(ids.customer, ids.samosa, 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	o, err := svc.PlaceOrder(ids.customer, domain.PaymentCash)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	// Skipping forward is allowed.
	if _, err := svc.UpdateOrderStatus(o.OrderID, domain.OrderReady); err != nil {
		t.Fatalf("to READY: %v", err)
	}
	// Backwards is not.
	if _, err := svc.UpdateOrderStatus(o.OrderID, domain.OrderPreparing); !errors.As(err, new(ErrConflict)) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := svc.UpdateOrderStatus(o.OrderID, domain.OrderDelivered)
	if err != nil {
		t.Fatalf("to DELIVERED: %v", err)
	}
	if got.PaymentStatus != domain.PaymentCompleted {
		t.Fatalf("delivery must complete payment: %+v", got)
	}

	// DELIVERED is terminal, even for cancellation.
	if _, err := svc.UpdateOrderStatus(o.OrderID, domain.OrderCancelled); !errors.As(err, new(ErrConflict)) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCancelledOrderStaysCancelled(t *testing.T) {
	_, svc, ids := fixture(t)
	if _, err := svc.AddToCart(ids.customer, ids.samosa, 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	o, err := svc.PlaceOrder(ids.customer, domain.PaymentUPI)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(o.OrderID, domain.OrderCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.UpdateOrderStatus(o.OrderID, domain.OrderPreparing); !errors.As(err, new(ErrConflict)) {
		t.Fatalf("expected conflict, got %v", err)
	}
}
