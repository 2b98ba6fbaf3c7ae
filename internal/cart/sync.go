package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"eatorbit-client/internal/api"
	"eatorbit-client/internal/domain"
)

var (
	// ErrMutationInFlight means the item already has an unsettled mutation;
	// the new request is dropped, not queued.
	ErrMutationInFlight = errors.New("mutation already in flight for item")
	// ErrItemNotInCart means the referenced line is not in the local view.
	ErrItemNotInCart = errors.New("item not in cart")
)

// Backend is the slice of the API client the synchronizer mutates through.
type Backend interface {
	Cart(ctx context.Context) (domain.Cart, error)
	AddToCart(ctx context.Context, foodID int64, quantity int) (domain.Cart, error)
	RemoveCartItem(ctx context.Context, cartItemID int64) (domain.Cart, error)
}

// Synchronizer keeps a locally displayed cart approximately consistent with
// the server's while giving immediate feedback on quantity changes. Quantity
// changes are applied optimistically against an immutable pre-mutation
// snapshot and rolled back exactly on failure; adds and removals wait for the
// server. After every successful mutation the authoritative cart is
// re-fetched and replaces the local view wholesale.
type Synchronizer struct {
	api      Backend
	creds    api.CredentialSource
	resolver *Resolver
	log      *slog.Logger

	mu       sync.Mutex
	cart     domain.Cart
	gen      uint64
	inflight map[string]bool
}

func NewSynchronizer(backend Backend, creds api.CredentialSource, resolver *Resolver, log *slog.Logger) *Synchronizer {
	if log == nil {
		log = slog.Default()
	}
	return &Synchronizer{
		api:      backend,
		creds:    creds,
		resolver: resolver,
		log:      log,
		cart:     domain.EmptyCart(),
		inflight: make(map[string]bool),
	}
}

// View returns the last-known cart. Any number of surfaces may read it; only
// the synchronizer writes it.
func (s *Synchronizer) View() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Fetch pulls the authoritative cart and replaces the local view. Without a
// signed-in identity the cart is empty and no network call is made; a server
// that has no cart yet for this customer is likewise an empty cart, not an
// error.
func (s *Synchronizer) Fetch(ctx context.Context) (domain.Cart, error) {
	if _, ok := s.creds.Token(); !ok {
		s.mu.Lock()
		s.cart = domain.EmptyCart()
		c := s.cart.Clone()
		s.mu.Unlock()
		return c, nil
	}
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()
	c, err := s.fetchAuthoritative(ctx)
	if err != nil {
		return domain.Cart{}, err
	}
	s.replaceIfCurrent(gen, c)
	return c, nil
}

// Add creates or increases the line for foodID by quantity. The local view is
// only updated from the re-fetched authoritative cart; there is no optimistic
// state to roll back.
func (s *Synchronizer) Add(ctx context.Context, foodID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}
	key := fmt.Sprintf("food:%d", foodID)
	s.mu.Lock()
	if s.inflight[key] {
		s.mu.Unlock()
		return ErrMutationInFlight
	}
	s.inflight[key] = true
	gen := s.gen
	s.mu.Unlock()
	defer s.settle(key)

	if _, err := s.api.AddToCart(ctx, foodID, quantity); err != nil {
		s.log.Warn("cart add rejected", "foodId", foodID, "err", err)
		return fmt.Errorf("add to cart: %w", err)
	}
	s.refreshAfterMutation(ctx, gen)
	return nil
}

// ChangeQuantity adjusts an existing line by delta. A delta that would drop
// the quantity to zero or below is redefined as Remove; otherwise the local
// line is adjusted immediately (line total recomputed from the unit price
// implied by current state) and the signed delta is sent to the server. On
// failure the pre-mutation snapshot is restored exactly.
func (s *Synchronizer) ChangeQuantity(ctx context.Context, cartItemID int64, delta int) error {
	if delta == 0 {
		return nil
	}
	s.mu.Lock()
	item, ok := s.cart.Item(cartItemID)
	if !ok {
		s.mu.Unlock()
		return ErrItemNotInCart
	}
	if item.Quantity+delta <= 0 {
		s.mu.Unlock()
		return s.Remove(ctx, cartItemID)
	}
	key := mutationKey(item)
	if s.inflight[key] {
		s.mu.Unlock()
		return ErrMutationInFlight
	}
	s.inflight[key] = true
	gen := s.gen
	outletID := s.cart.OutletID
	snapshot := s.cart.Clone()
	s.applyOptimisticLocked(cartItemID, delta)
	s.mu.Unlock()
	defer s.settle(key)

	foodID, err := s.resolver.FoodID(ctx, outletID, item)
	if err != nil {
		s.restoreIfCurrent(gen, snapshot)
		return fmt.Errorf("resolve food id: %w", err)
	}
	if _, err := s.api.AddToCart(ctx, foodID, delta); err != nil {
		s.restoreIfCurrent(gen, snapshot)
		s.log.Warn("quantity change rejected", "cartItemId", cartItemID, "delta", delta, "err", err)
		return fmt.Errorf("change quantity: %w", err)
	}
	s.refreshAfterMutation(ctx, gen)
	return nil
}

// Remove deletes a line unconditionally. The item stays displayed until the
// server confirms; on failure nothing changes locally.
func (s *Synchronizer) Remove(ctx context.Context, cartItemID int64) error {
	s.mu.Lock()
	key := fmt.Sprintf("line:%d", cartItemID)
	if item, ok := s.cart.Item(cartItemID); ok {
		key = mutationKey(item)
	}
	if s.inflight[key] {
		s.mu.Unlock()
		return ErrMutationInFlight
	}
	s.inflight[key] = true
	gen := s.gen
	s.mu.Unlock()
	defer s.settle(key)

	if _, err := s.api.RemoveCartItem(ctx, cartItemID); err != nil {
		s.log.Warn("cart remove rejected", "cartItemId", cartItemID, "err", err)
		return fmt.Errorf("remove item: %w", err)
	}
	s.refreshAfterMutation(ctx, gen)
	return nil
}

// Reset discards the local view and invalidates anything still in flight;
// late responses from before the reset are dropped on arrival. Called on
// sign-out and outlet switches.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.gen++
	s.cart = domain.EmptyCart()
	s.mu.Unlock()
	if s.resolver != nil {
		s.resolver.Invalidate()
	}
}

func (s *Synchronizer) applyOptimisticLocked(cartItemID int64, delta int) {
	items := make([]domain.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	for i, it := range items {
		if it.CartItemID != cartItemID {
			continue
		}
		unit := it.UnitPrice()
		it.Quantity += delta
		it.TotalPrice = unit * float64(it.Quantity)
		items[i] = it
	}
	s.cart.Items = items
	total := 0.0
	for _, it := range items {
		total += it.TotalPrice
	}
	s.cart.TotalAmount = total
}

func (s *Synchronizer) fetchAuthoritative(ctx context.Context) (domain.Cart, error) {
	c, err := s.api.Cart(ctx)
	if err != nil {
		if api.IsNotFound(err) {
			return domain.EmptyCart(), nil
		}
		return domain.Cart{}, fmt.Errorf("fetch cart: %w", err)
	}
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	return c, nil
}

// refreshAfterMutation reconciles the local view against the server after a
// confirmed mutation. The mutation itself succeeded, so a failed re-fetch is
// logged and the optimistic view kept; the next fetch repairs it.
func (s *Synchronizer) refreshAfterMutation(ctx context.Context, gen uint64) {
	c, err := s.fetchAuthoritative(ctx)
	if err != nil {
		s.log.Warn("post-mutation refresh failed", "err", err)
		return
	}
	s.replaceIfCurrent(gen, c)
}

func (s *Synchronizer) replaceIfCurrent(gen uint64, c domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.cart = c
}

func (s *Synchronizer) restoreIfCurrent(gen uint64, snapshot domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.cart = snapshot
}

// mutationKey identifies a cart item for single-flight tracking. Adds and
// line mutations must contend on the same key, so the food identity is used
// whenever the line carries one; lines without a food id fall back to the
// line id, the best identity available.
func mutationKey(item domain.CartItem) string {
	if item.FoodID != 0 {
		return fmt.Sprintf("food:%d", item.FoodID)
	}
	return fmt.Sprintf("line:%d", item.CartItemID)
}

func (s *Synchronizer) settle(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}
