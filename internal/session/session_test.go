package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/samsa/internal/kv"
	"github.com/example/samsa/internal/session"
)

const phone = "998901234567"

func TestIssueAndRedeemCode(t *testing.T) {
	m := session.NewManager(kv.NewMemory())

	require.NoError(t, m.IssueCode(phone, "123456"))

	assert.False(t, m.RedeemCode(phone, "000000"))
	assert.True(t, m.RedeemCode(phone, "123456"))

	// Codes are single-use.
	assert.False(t, m.RedeemCode(phone, "123456"))
}

func TestExpiredCodeIsRejected(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := session.NewManager(kv.NewMemory()).WithClock(func() time.Time { return now })

	require.NoError(t, m.IssueCode(phone, "123456"))

	now = now.Add(11 * time.Minute)
	assert.False(t, m.RedeemCode(phone, "123456"))
}

func TestFindOrCreateGrantsWelcomeBonus(t *testing.T) {
	m := session.NewManager(kv.NewMemory())

	user := m.FindOrCreate(phone)
	assert.Equal(t, phone, user.ID)
	assert.Equal(t, phone, user.Phone)
	assert.Equal(t, session.DefaultName, user.Name)
	assert.Equal(t, session.WelcomeBonus, user.LoyaltyPoints)
	assert.NotEmpty(t, user.JoinedDate)

	// A second verification finds the same record instead of re-creating it.
	m.AddLoyaltyPoints(phone, 50)
	again := m.FindOrCreate(phone)
	assert.Equal(t, session.WelcomeBonus+50, again.LoyaltyPoints)
}

func TestUpdateName(t *testing.T) {
	m := session.NewManager(kv.NewMemory())
	m.FindOrCreate(phone)

	user, ok := m.UpdateName(phone, "Aziz")
	require.True(t, ok)
	assert.Equal(t, "Aziz", user.Name)

	got, ok := m.Get(phone)
	require.True(t, ok)
	assert.Equal(t, "Aziz", got.Name)

	_, ok = m.UpdateName("unknown", "Nobody")
	assert.False(t, ok)
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	m := session.NewManager(kv.NewMemory()).WithClock(func() time.Time { return now })

	m.FindOrCreate(phone)

	now = now.Add(31 * 24 * time.Hour)

	_, ok := m.Get(phone)
	assert.False(t, ok)
}

func TestLogoutErasesSession(t *testing.T) {
	m := session.NewManager(kv.NewMemory())
	m.FindOrCreate(phone)

	m.Logout(phone)

	_, ok := m.Get(phone)
	assert.False(t, ok)
}
