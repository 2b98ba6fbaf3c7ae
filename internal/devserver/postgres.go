package devserver

import (
	"database/sql"
	"encoding/json"

	_ "github.com/lib/pq"

	"eatorbit-client/internal/domain"
)

// PostgresStore persists records as JSON rows with a few queryable columns,
// creating its own schema on first use. Meant for dev setups that should
// survive restarts; the memory store stays the default.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS seq (kind TEXT PRIMARY KEY, n BIGINT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS users (id BIGINT PRIMARY KEY, email TEXT, doc TEXT)`,
		`CREATE TABLE IF NOT EXISTS outlets (id BIGINT PRIMARY KEY, doc TEXT)`,
		`CREATE TABLE IF NOT EXISTS foods (id BIGINT PRIMARY KEY, outlet_id BIGINT, doc TEXT)`,
		`CREATE TABLE IF NOT EXISTS carts (customer_id BIGINT PRIMARY KEY, doc TEXT)`,
		`CREATE TABLE IF NOT EXISTS orders (id BIGINT PRIMARY KEY, token TEXT, customer_id BIGINT, outlet_id BIGINT, doc TEXT)`,
		`CREATE TABLE IF NOT EXISTS upi_qrs (outlet_id BIGINT PRIMARY KEY, doc TEXT)`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) NextID(kind string) int64 {
	var n int64
	err := s.db.QueryRow(`INSERT INTO seq (kind, n) VALUES ($1, 1)
		ON CONFLICT (kind) DO UPDATE SET n = seq.n + 1 RETURNING n`, kind).Scan(&n)
	if err != nil {
		return 0
	}
	return n
}

func putDoc(db *sql.DB, query string, doc any, args ...any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = db.Exec(query, append(args, string(raw))...)
	return err
}

func getDoc[T any](db *sql.DB, query string, args ...any) (*T, bool) {
	var raw string
	if err := db.QueryRow(query, args...).Scan(&raw); err != nil {
		return nil, false
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, false
	}
	return &out, true
}

func listDocs[T any](db *sql.DB, query string, args ...any) []*T {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []*T
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			continue
		}
		out = append(out, &v)
	}
	return out
}

func (s *PostgresStore) PutUser(u *User) error {
	return putDoc(s.db, `INSERT INTO users (id, email, doc) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET email = $2, doc = $3`, u, u.UserID, u.Email)
}

func (s *PostgresStore) UserByEmail(email string) (*User, bool) {
	return getDoc[User](s.db, `SELECT doc FROM users WHERE lower(email) = lower($1)`, email)
}

func (s *PostgresStore) User(id int64) (*User, bool) {
	return getDoc[User](s.db, `SELECT doc FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) ListUsers() []*User {
	return listDocs[User](s.db, `SELECT doc FROM users ORDER BY id`)
}

func (s *PostgresStore) DeleteUser(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM carts WHERE customer_id = $1`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) PutOutlet(o *domain.Outlet) error {
	return putDoc(s.db, `INSERT INTO outlets (id, doc) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = $2`, o, o.OutletID)
}

func (s *PostgresStore) Outlet(id int64) (*domain.Outlet, bool) {
	return getDoc[domain.Outlet](s.db, `SELECT doc FROM outlets WHERE id = $1`, id)
}

func (s *PostgresStore) ListOutlets() []*domain.Outlet {
	return listDocs[domain.Outlet](s.db, `SELECT doc FROM outlets ORDER BY id`)
}

func (s *PostgresStore) DeleteOutlet(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM foods WHERE outlet_id = $1`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM outlets WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) PutFood(f *domain.FoodItem) error {
	return putDoc(s.db, `INSERT INTO foods (id, outlet_id, doc) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET outlet_id = $2, doc = $3`, f, f.FoodID, f.OutletID)
}

func (s *PostgresStore) Food(id int64) (*domain.FoodItem, bool) {
	return getDoc[domain.FoodItem](s.db, `SELECT doc FROM foods WHERE id = $1`, id)
}

func (s *PostgresStore) ListFoods(outletID int64) []*domain.FoodItem {
	return listDocs[domain.FoodItem](s.db, `SELECT doc FROM foods WHERE outlet_id = $1 ORDER BY id`, outletID)
}

func (s *PostgresStore) DeleteFood(id int64) error {
	_, err := s.db.Exec(`DELETE FROM foods WHERE id = $1`, id)
	return err
}

func (s *PostgresStore) CartByCustomer(customerID int64) (*CartRecord, bool) {
	return getDoc[CartRecord](s.db, `SELECT doc FROM carts WHERE customer_id = $1`, customerID)
}

func (s *PostgresStore) PutCart(c *CartRecord) error {
	return putDoc(s.db, `INSERT INTO carts (customer_id, doc) VALUES ($1, $2)
		ON CONFLICT (customer_id) DO UPDATE SET doc = $2`, c, c.CustomerID)
}

func (s *PostgresStore) DeleteCart(customerID int64) error {
	_, err := s.db.Exec(`DELETE FROM carts WHERE customer_id = $1`, customerID)
	return err
}

func (s *PostgresStore) PutOrder(o *OrderRecord) error {
	return putDoc(s.db, `INSERT INTO orders (id, token, customer_id, outlet_id, doc) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET token = $2, customer_id = $3, outlet_id = $4, doc = $5`,
		o, o.OrderID, o.TokenNumber, o.CustomerID, o.OutletID)
}

func (s *PostgresStore) Order(id int64) (*OrderRecord, bool) {
	return getDoc[OrderRecord](s.db, `SELECT doc FROM orders WHERE id = $1`, id)
}

func (s *PostgresStore) OrderByToken(token string) (*OrderRecord, bool) {
	return getDoc[OrderRecord](s.db, `SELECT doc FROM orders WHERE token = $1`, token)
}

func (s *PostgresStore) ListOrdersByCustomer(customerID int64) []*OrderRecord {
	return listDocs[OrderRecord](s.db, `SELECT doc FROM orders WHERE customer_id = $1 ORDER BY id DESC`, customerID)
}

func (s *PostgresStore) ListOrdersByOutlet(outletID int64) []*OrderRecord {
	return listDocs[OrderRecord](s.db, `SELECT doc FROM orders WHERE outlet_id = $1 ORDER BY id DESC`, outletID)
}

func (s *PostgresStore) ListOrders() []*OrderRecord {
	return listDocs[OrderRecord](s.db, `SELECT doc FROM orders ORDER BY id DESC`)
}

func (s *PostgresStore) UpiQR(outletID int64) (*domain.UpiQR, bool) {
	return getDoc[domain.UpiQR](s.db, `SELECT doc FROM upi_qrs WHERE outlet_id = $1`, outletID)
}

func (s *PostgresStore) PutUpiQR(q *domain.UpiQR) error {
	return putDoc(s.db, `INSERT INTO upi_qrs (outlet_id, doc) VALUES ($1, $2)
		ON CONFLICT (outlet_id) DO UPDATE SET doc = $2`, q, q.OutletID)
}
