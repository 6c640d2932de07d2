package history_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/samsa/internal/history"
	"github.com/example/samsa/internal/kv"
	"github.com/example/samsa/internal/models"
)

func lines(title string) []models.CartLine {
	return []models.CartLine{{
		MenuItem: models.MenuItem{
			ID:       "samsa-beef",
			Title:    title,
			Price:    18000,
			Category: "samsa",
		},
		Quantity: 2,
	}}
}

// tickingClock returns a clock that advances on every call so time-derived
// order ids stay unique.
func tickingClock() func() time.Time {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func TestRecordOrderFields(t *testing.T) {
	l := history.New(kv.NewMemory()).WithClock(tickingClock())

	order := l.RecordOrder(lines("Beef Samsa"), 36000, "u1")

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, 36000, order.Total)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 1)

	_, err := time.Parse(time.RFC3339, order.Date)
	assert.NoError(t, err)
}

func TestOrdersForFiltersByUser(t *testing.T) {
	l := history.New(kv.NewMemory()).WithClock(tickingClock())

	l.RecordOrder(lines("guest one"), 100, "")
	l.RecordOrder(lines("for u1"), 200, "u1")
	l.RecordOrder(lines("for u2"), 300, "u2")
	l.RecordOrder(lines("guest two"), 400, "")

	for _, o := range l.OrdersFor("u1") {
		assert.Equal(t, "u1", o.UserID)
	}
	require.Len(t, l.OrdersFor("u1"), 1)

	for _, o := range l.OrdersFor("") {
		assert.Empty(t, o.UserID)
	}
	require.Len(t, l.OrdersFor(""), 2)
}

func TestGuestWindowIsCapped(t *testing.T) {
	l := history.New(kv.NewMemory()).WithClock(tickingClock())

	for i := 0; i < 8; i++ {
		l.RecordOrder(lines(fmt.Sprintf("guest %d", i)), (i+1)*100, "")
	}

	guest := l.OrdersFor("")
	require.Len(t, guest, 5)

	// Most recent first.
	assert.Equal(t, 800, guest[0].Total)
	assert.Equal(t, 400, guest[4].Total)
}

func TestLedgerCapEvictsOldest(t *testing.T) {
	l := history.New(kv.NewMemory()).WithClock(tickingClock())

	for i := 1; i <= 51; i++ {
		l.RecordOrder(lines(fmt.Sprintf("order %d", i)), i, "u1")
	}

	orders := l.OrdersFor("u1")
	require.Len(t, orders, 50)

	// The first order is gone, the most recent 50 remain, newest first.
	assert.Equal(t, 51, orders[0].Total)
	assert.Equal(t, 2, orders[49].Total)
}

func TestSnapshotIsolation(t *testing.T) {
	l := history.New(kv.NewMemory()).WithClock(tickingClock())

	cartLines := lines("Beef Samsa")
	order := l.RecordOrder(cartLines, 36000, "")

	// Mutating the live cart afterwards must not touch the recorded order.
	cartLines[0].Quantity = 99
	cartLines[0].Title = "mutated"

	got := l.OrdersFor("")
	require.Len(t, got, 1)
	require.Len(t, got[0].Items, 1)
	assert.Equal(t, 2, got[0].Items[0].Quantity)
	assert.Equal(t, "Beef Samsa", got[0].Items[0].Title)

	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestMostRecentOrder(t *testing.T) {
	l := history.New(kv.NewMemory()).WithClock(tickingClock())

	_, found := l.MostRecentOrder("u1")
	assert.False(t, found)

	l.RecordOrder(lines("first"), 100, "u1")
	l.RecordOrder(lines("second"), 200, "u1")

	latest, found := l.MostRecentOrder("u1")
	require.True(t, found)
	assert.Equal(t, 200, latest.Total)
}

func TestLedgerSurvivesLegacyPayload(t *testing.T) {
	backend := kv.NewMemory()

	// Pre-versioning clients stored a bare array under the orders key.
	legacy := `[{"id":"order-legacy","date":"2026-07-01T10:00:00Z","items":[],"total":5000,"status":"delivered"}]`
	require.NoError(t, backend.Set("orders", legacy))

	l := history.New(backend).WithClock(tickingClock())

	orders := l.OrdersFor("")
	require.Len(t, orders, 1)
	assert.Equal(t, "order-legacy", orders[0].ID)

	l.RecordOrder(lines("new"), 100, "")
	assert.Len(t, l.OrdersFor(""), 2)
}

func TestCorruptLedgerDegradesToEmpty(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set("orders", `{"totally":"wrong"}`))

	l := history.New(backend).WithClock(tickingClock())

	assert.Empty(t, l.OrdersFor(""))
	assert.Empty(t, l.OrdersFor("u1"))
}
