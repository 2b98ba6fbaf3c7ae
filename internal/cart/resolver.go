package cart

import (
	"context"
	"errors"
	"sync"

	"eatorbit-client/internal/domain"
)

var (
	// ErrUnknownFood means a cart line's name matched nothing on the outlet's
	// menu, so no identifier could be derived for the mutation.
	ErrUnknownFood = errors.New("food item not on outlet menu")
	// ErrAmbiguousFood means two menu items share a display name; mutating by
	// name could silently hit the wrong line, so the resolver refuses.
	ErrAmbiguousFood = errors.New("food name is ambiguous on outlet menu")
)

// MenuAPI is the slice of the backend the resolver needs.
type MenuAPI interface {
	Menu(ctx context.Context, outletID int64) ([]domain.FoodItem, error)
}

// Resolver maps a cart line back to its food identifier. The backend's cart
// lines historically carried only display names; when a line does carry a
// foodId it is used directly, otherwise the outlet menu is fetched once and
// names are matched — with duplicates rejected rather than guessed at.
type Resolver struct {
	api MenuAPI

	mu       sync.Mutex
	outletID int64
	byName   map[string]int64
	dupes    map[string]bool
}

func NewResolver(api MenuAPI) *Resolver {
	return &Resolver{api: api}
}

// FoodID returns the identifier to mutate for item within outletID's cart.
func (r *Resolver) FoodID(ctx context.Context, outletID int64, item domain.CartItem) (int64, error) {
	if item.FoodID != 0 {
		return item.FoodID, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byName == nil || r.outletID != outletID {
		if err := r.loadLocked(ctx, outletID); err != nil {
			return 0, err
		}
	}
	if r.dupes[item.FoodName] {
		return 0, ErrAmbiguousFood
	}
	if id, ok := r.byName[item.FoodName]; ok {
		return id, nil
	}
	// Menu may have changed since it was cached; one refresh before giving up.
	if err := r.loadLocked(ctx, outletID); err != nil {
		return 0, err
	}
	if r.dupes[item.FoodName] {
		return 0, ErrAmbiguousFood
	}
	if id, ok := r.byName[item.FoodName]; ok {
		return id, nil
	}
	return 0, ErrUnknownFood
}

// Invalidate drops the cached menu, e.g. after an outlet switch.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName = nil
	r.dupes = nil
	r.outletID = 0
}

func (r *Resolver) loadLocked(ctx context.Context, outletID int64) error {
	menu, err := r.api.Menu(ctx, outletID)
	if err != nil {
		return err
	}
	byName := make(map[string]int64, len(menu))
	dupes := make(map[string]bool)
	for _, f := range menu {
		if _, seen := byName[f.FoodName]; seen {
			dupes[f.FoodName] = true
			continue
		}
		byName[f.FoodName] = f.FoodID
	}
	r.outletID = outletID
	r.byName = byName
	r.dupes = dupes
	return nil
}
