package domain

type FoodItem struct {
	FoodID      int64   `json:"foodId"`
	FoodName    string  `json:"foodName"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
	OutletID    int64   `json:"outletId"`
}

type Outlet struct {
	OutletID   int64  `json:"outletId"`
	OutletName string `json:"outletName"`
	Location   string `json:"location,omitempty"`
	OwnerID    int64  `json:"ownerId,omitempty"`
	Approved   bool   `json:"approved"`
}

// UpiQR is the payment QR metadata an outlet owner publishes; the image
// itself is served elsewhere, only the address and display name travel here.
type UpiQR struct {
	OutletID int64  `json:"outletId"`
	UpiID    string `json:"upiId"`
	Payee    string `json:"payeeName"`
	ImageURL string `json:"imageUrl,omitempty"`
}
