package devserver

import (
	"time"

	"eatorbit-client/internal/domain"
)

// Seed loads a small fixture data set so the server is usable out of the box.
// It is a no-op when users already exist, so restarting against postgres does
// not duplicate rows.
func Seed(store Store) error {
	if len(store.ListUsers()) > 0 {
		return nil
	}

	now := time.Now().UTC()

	admin := &User{
		User: domain.User{
			UserID:    store.NextID("user"),
			Name:      "Admin",
			Email:     "admin@eatorbit.local",
			Role:      domain.RoleAdmin,
			Status:    domain.UserActive,
			CreatedAt: now,
		},
		PasswordHash: hashPassword("admin123"),
	}
	owner := &User{
		User: domain.User{
			UserID:    store.NextID("user"),
			Name:      "Canteen Owner",
			Email:     "owner@eatorbit.local",
			Role:      domain.RoleOwner,
			Status:    domain.UserActive,
			CreatedAt: now,
		},
		PasswordHash: hashPassword("owner123"),
	}
	customer := &User{
		User: domain.User{
			UserID:    store.NextID("user"),
			Name:      "Test Customer",
			Email:     "customer@eatorbit.local",
			Role:      domain.RoleCustomer,
			Status:    domain.UserActive,
			CreatedAt: now,
		},
		PasswordHash: hashPassword("customer123"),
	}
	for _, u := range []*User{admin, owner, customer} {
		if err := store.PutUser(u); err != nil {
			return err
		}
	}

	canteen := &domain.Outlet{
		OutletID:   store.NextID("outlet"),
		OutletName: "Main Canteen",
		Location:   "Block A, Ground Floor",
		OwnerID:    owner.UserID,
		Approved:   true,
	}
	juiceBar := &domain.Outlet{
		OutletID:   store.NextID("outlet"),
		OutletName: "Juice Corner",
		Location:   "Sports Complex",
		OwnerID:    owner.UserID,
		Approved:   true,
	}
	for _, o := range []*domain.Outlet{canteen, juiceBar} {
		if err := store.PutOutlet(o); err != nil {
			return err
		}
	}

	menu := []domain.FoodItem{
		{FoodName: "Samosa", Description: "Crisp fried pastry with potato filling", Category: "Snacks", Price: 20, Available: true, OutletID: canteen.OutletID},
		{FoodName: "Masala Dosa", Description: "Rice crepe with spiced potato", Category: "South Indian", Price: 60, Available: true, OutletID: canteen.OutletID},
		{FoodName: "Veg Thali", Description: "Full meal with rice, dal and two curries", Category: "Meals", Price: 90, Available: true, OutletID: canteen.OutletID},
		{FoodName: "Chai", Description: "Milk tea", Category: "Beverages", Price: 10, Available: true, OutletID: canteen.OutletID},
		{FoodName: "Paneer Roll", Description: "Grilled wrap with paneer tikka", Category: "Snacks", Price: 55, Available: false, OutletID: canteen.OutletID},
		{FoodName: "Orange Juice", Description: "Freshly squeezed", Category: "Beverages", Price: 40, Available: true, OutletID: juiceBar.OutletID},
		{FoodName: "Banana Shake", Description: "With jaggery, no sugar", Category: "Beverages", Price: 45, Available: true, OutletID: juiceBar.OutletID},
	}
	for i := range menu {
		menu[i].FoodID = store.NextID("food")
		if err := store.PutFood(&menu[i]); err != nil {
			return err
		}
	}

	return store.PutUpiQR(&domain.UpiQR{
		OutletID: canteen.OutletID,
		UpiID:    "maincanteen@upi",
		Payee:    "Main Canteen",
	})
}
