package devserver

import (
	"sort"
	"strings"
	"sync"

	"eatorbit-client/internal/domain"
)

// MemoryStore keeps everything in maps; the default for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	ids     map[string]int64
	users   map[int64]*User
	outlets map[int64]*domain.Outlet
	foods   map[int64]*domain.FoodItem
	carts   map[int64]*CartRecord // keyed by customer id
	orders  map[int64]*OrderRecord
	qrs     map[int64]*domain.UpiQR // keyed by outlet id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ids:     make(map[string]int64),
		users:   make(map[int64]*User),
		outlets: make(map[int64]*domain.Outlet),
		foods:   make(map[int64]*domain.FoodItem),
		carts:   make(map[int64]*CartRecord),
		orders:  make(map[int64]*OrderRecord),
		qrs:     make(map[int64]*domain.UpiQR),
	}
}

func (m *MemoryStore) NextID(kind string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[kind]++
	return m.ids[kind]
}

func (m *MemoryStore) PutUser(u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.UserID] = u
	return nil
}

func (m *MemoryStore) UserByEmail(email string) (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return nil, false
}

func (m *MemoryStore) User(id int64) (*User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	return u, ok
}

func (m *MemoryStore) ListUsers() []*User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (m *MemoryStore) DeleteUser(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	delete(m.carts, id)
	return nil
}

func (m *MemoryStore) PutOutlet(o *domain.Outlet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outlets[o.OutletID] = o
	return nil
}

func (m *MemoryStore) Outlet(id int64) (*domain.Outlet, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.outlets[id]
	return o, ok
}

func (m *MemoryStore) ListOutlets() []*domain.Outlet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Outlet, 0, len(m.outlets))
	for _, o := range m.outlets {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OutletID < out[j].OutletID })
	return out
}

func (m *MemoryStore) DeleteOutlet(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.outlets, id)
	for fid, f := range m.foods {
		if f.OutletID == id {
			delete(m.foods, fid)
		}
	}
	return nil
}

func (m *MemoryStore) PutFood(f *domain.FoodItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.foods[f.FoodID] = f
	return nil
}

func (m *MemoryStore) Food(id int64) (*domain.FoodItem, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.foods[id]
	return f, ok
}

func (m *MemoryStore) ListFoods(outletID int64) []*domain.FoodItem {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.FoodItem
	for _, f := range m.foods {
		if f.OutletID == outletID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FoodID < out[j].FoodID })
	return out
}

func (m *MemoryStore) DeleteFood(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.foods, id)
	return nil
}

func (m *MemoryStore) CartByCustomer(customerID int64) (*CartRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[customerID]
	return c, ok
}

func (m *MemoryStore) PutCart(c *CartRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[c.CustomerID] = c
	return nil
}

func (m *MemoryStore) DeleteCart(customerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, customerID)
	return nil
}

func (m *MemoryStore) PutOrder(o *OrderRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.OrderID] = o
	return nil
}

func (m *MemoryStore) Order(id int64) (*OrderRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	return o, ok
}

func (m *MemoryStore) OrderByToken(token string) (*OrderRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.TokenNumber == token {
			return o, true
		}
	}
	return nil, false
}

func (m *MemoryStore) ListOrdersByCustomer(customerID int64) []*OrderRecord {
	return m.filterOrders(func(o *OrderRecord) bool { return o.CustomerID == customerID })
}

func (m *MemoryStore) ListOrdersByOutlet(outletID int64) []*OrderRecord {
	return m.filterOrders(func(o *OrderRecord) bool { return o.OutletID == outletID })
}

func (m *MemoryStore) ListOrders() []*OrderRecord {
	return m.filterOrders(func(*OrderRecord) bool { return true })
}

func (m *MemoryStore) filterOrders(keep func(*OrderRecord) bool) []*OrderRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*OrderRecord
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderID > out[j].OrderID })
	return out
}

func (m *MemoryStore) UpiQR(outletID int64) (*domain.UpiQR, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.qrs[outletID]
	return q, ok
}

func (m *MemoryStore) PutUpiQR(q *domain.UpiQR) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.qrs[q.OutletID] = q
	return nil
}
