package domain

// CartItem is one line of a customer's cart. TotalPrice is the line total
// computed by the server; FoodID may be zero when the backend omits it, in
// which case the menu resolver maps FoodName back to an identifier.
type CartItem struct {
	CartItemID int64   `json:"cartItemId"`
	FoodID     int64   `json:"foodId,omitempty"`
	FoodName   string  `json:"foodName"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

// UnitPrice derives the per-unit price implied by the line total.
func (i CartItem) UnitPrice() float64 {
	if i.Quantity <= 0 {
		return 0
	}
	return i.TotalPrice / float64(i.Quantity)
}

// Cart is the server-owned cart projection. All items belong to the same
// outlet; the server clears the cart when an item from another outlet is
// added.
type Cart struct {
	CartID      int64      `json:"cartId"`
	OutletID    int64      `json:"outletId"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount"`
}

// EmptyCart is the zero shape used when the customer has no cart yet.
func EmptyCart() Cart {
	return Cart{Items: []CartItem{}}
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount sums line quantities, the number shown on the cart badge.
func (c Cart) ItemCount() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Item returns the line with the given id.
func (c Cart) Item(cartItemID int64) (CartItem, bool) {
	for _, it := range c.Items {
		if it.CartItemID == cartItemID {
			return it, true
		}
	}
	return CartItem{}, false
}

// Clone deep-copies the cart so a snapshot stays immutable while the live
// view is mutated optimistically.
func (c Cart) Clone() Cart {
	cp := c
	cp.Items = make([]CartItem, len(c.Items))
	copy(cp.Items, c.Items)
	return cp
}
