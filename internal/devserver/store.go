package devserver

import "eatorbit-client/internal/domain"

// User is the server-side user record; the embedded domain.User is what goes
// over the wire.
type User struct {
	domain.User
	PasswordHash string
}

// CartLine is the server-side cart line; display names and totals are derived
// from the menu at read time, the stored state is just food id + quantity.
type CartLine struct {
	CartItemID int64
	FoodID     int64
	Quantity   int
}

type CartRecord struct {
	CartID     int64
	CustomerID int64
	OutletID   int64
	Lines      []CartLine
}

// OrderRecord is the server-side order; items are frozen at placement.
type OrderRecord struct {
	domain.Order
	CustomerID int64
	OutletID   int64
}

// Store is the devserver's persistence boundary, with a memory and a
// postgres implementation.
type Store interface {
	NextID(kind string) int64

	PutUser(u *User) error
	UserByEmail(email string) (*User, bool)
	User(id int64) (*User, bool)
	ListUsers() []*User
	DeleteUser(id int64) error

	PutOutlet(o *domain.Outlet) error
	Outlet(id int64) (*domain.Outlet, bool)
	ListOutlets() []*domain.Outlet
	DeleteOutlet(id int64) error

	PutFood(f *domain.FoodItem) error
	Food(id int64) (*domain.FoodItem, bool)
	ListFoods(outletID int64) []*domain.FoodItem
	DeleteFood(id int64) error

	CartByCustomer(customerID int64) (*CartRecord, bool)
	PutCart(c *CartRecord) error
	DeleteCart(customerID int64) error

	PutOrder(o *OrderRecord) error
	Order(id int64) (*OrderRecord, bool)
	OrderByToken(token string) (*OrderRecord, bool)
	ListOrdersByCustomer(customerID int64) []*OrderRecord
	ListOrdersByOutlet(outletID int64) []*OrderRecord
	ListOrders() []*OrderRecord

	UpiQR(outletID int64) (*domain.UpiQR, bool)
	PutUpiQR(q *domain.UpiQR) error
}
