// Package history keeps the order ledger: an enveloped, capped list of
// checkout snapshots shared by authenticated and guest orders.
package history

import (
	"fmt"
	"time"

	"github.com/example/samsa/internal/kv"
	"github.com/example/samsa/internal/models"
	"github.com/example/samsa/internal/store"
)

const (
	ordersKey = "orders"

	// maxOrders caps the ledger; oldest entries are evicted first.
	maxOrders = 50

	// guestWindow is how many recent guest orders stay visible without an
	// account.
	guestWindow = 5
)

// Ledger records and lists orders on top of the versioned expiring store.
type Ledger struct {
	store *store.Store[[]models.Order]
	now   func() time.Time
}

// New builds a ledger over the given persistence backend.
func New(backend kv.Store) *Ledger {
	return &Ledger{
		store: store.New(backend, ordersKey, store.DefaultTTL, models.ValidOrders),
		now:   time.Now,
	}
}

// WithClock overrides the ledger's clock for tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	l.store.WithClock(now)
	return l
}

// RecordOrder snapshots the given cart lines into a new pending order,
// prepends it to the ledger and truncates to the cap. Mutating the live
// cart afterwards cannot touch the recorded order.
func (l *Ledger) RecordOrder(lines []models.CartLine, total int, userID string) models.Order {
	now := l.now()

	order := models.Order{
		ID:     fmt.Sprintf("order-%d", now.UnixNano()),
		UserID: userID,
		Date:   now.Format(time.RFC3339),
		Items:  snapshotLines(lines),
		Total:  total,
		Status: models.OrderStatusPending,
	}

	orders, _ := l.store.Read()
	orders = append([]models.Order{order}, orders...)
	if len(orders) > maxOrders {
		orders = orders[:maxOrders]
	}
	l.store.Write(orders)

	return order
}

// OrdersFor returns the visible history for a user. With a user id it
// returns every order recorded under that id; without one it returns only
// guest orders, capped to the most recent few.
func (l *Ledger) OrdersFor(userID string) []models.Order {
	orders, ok := l.store.Read()
	if !ok {
		return []models.Order{}
	}

	matched := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if userID != "" {
			if o.UserID == userID {
				matched = append(matched, o)
			}
			continue
		}
		if o.UserID == "" {
			matched = append(matched, o)
		}
	}

	if userID == "" && len(matched) > guestWindow {
		matched = matched[:guestWindow]
	}

	return matched
}

// MostRecentOrder returns the newest visible order for a user, if any.
func (l *Ledger) MostRecentOrder(userID string) (models.Order, bool) {
	orders := l.OrdersFor(userID)
	if len(orders) == 0 {
		return models.Order{}, false
	}
	return orders[0], true
}

// snapshotLines deep-copies cart lines so later cart mutation cannot alter
// recorded history.
func snapshotLines(lines []models.CartLine) []models.CartLine {
	copied := make([]models.CartLine, len(lines))
	copy(copied, lines)
	return copied
}
