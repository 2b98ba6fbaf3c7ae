package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"eatorbit-client/internal/api"
	"eatorbit-client/internal/domain"
)

// ErrTokenNotFound is the neutral "nothing here" outcome for an unknown or
// malformed token. It is distinct from a transport failure.
var ErrTokenNotFound = errors.New("no order with that token")

// TrackingAPI is the slice of the backend the tracker reads through.
type TrackingAPI interface {
	TrackOrder(ctx context.Context, token string) (domain.Order, error)
}

// Tracker looks up order snapshots by token. Lookups are idempotent and never
// mutate; a previously displayed order stays available until a new lookup
// succeeds.
type Tracker struct {
	api TrackingAPI

	mu   sync.Mutex
	last domain.Order
	ok   bool
}

func NewTracker(api TrackingAPI) *Tracker {
	return &Tracker{api: api}
}

// Lookup fetches the current snapshot for token. An unknown token returns
// ErrTokenNotFound and leaves the last good snapshot untouched.
func (t *Tracker) Lookup(ctx context.Context, token string) (domain.Order, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Order{}, ErrTokenNotFound
	}
	o, err := t.api.TrackOrder(ctx, token)
	if err != nil {
		if api.IsNotFound(err) {
			return domain.Order{}, ErrTokenNotFound
		}
		return domain.Order{}, fmt.Errorf("track order: %w", err)
	}
	t.mu.Lock()
	t.last = o
	t.ok = true
	t.mu.Unlock()
	return o, nil
}

// Last returns the most recent successfully looked-up snapshot.
func (t *Tracker) Last() (domain.Order, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.ok
}
