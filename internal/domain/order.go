package domain

import "time"

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "PLACED"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

var statusRank = map[OrderStatus]int{
	OrderPlaced:    0,
	OrderPreparing: 1,
	OrderReady:     2,
	OrderDelivered: 3,
}

// CanTransition reports whether moving from s to next respects the monotonic
// PLACED -> PREPARING -> READY -> DELIVERED sequence. CANCELLED is terminal
// and reachable from any non-terminal status.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if s == OrderCancelled || s == OrderDelivered {
		return false
	}
	if next == OrderCancelled {
		return true
	}
	cur, ok := statusRank[s]
	if !ok {
		return false
	}
	nxt, ok := statusRank[next]
	if !ok {
		return false
	}
	return nxt > cur
}

type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCash PaymentMethod = "CASH"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// OrderItem is a line frozen at placement time; later menu edits do not
// change it.
type OrderItem struct {
	FoodName   string  `json:"foodName"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

type Order struct {
	OrderID       int64         `json:"orderId"`
	TokenNumber   string        `json:"tokenNumber"`
	OutletName    string        `json:"outletName"`
	Status        OrderStatus   `json:"status"`
	TotalAmount   float64       `json:"totalAmount"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	Items         []OrderItem   `json:"items"`
}
