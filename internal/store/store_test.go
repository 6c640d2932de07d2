package store_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/samsa/internal/kv"
	"github.com/example/samsa/internal/models"
	"github.com/example/samsa/internal/store"
)

func testUser() models.User {
	return models.User{
		ID:            "998901234567",
		Phone:         "998901234567",
		Name:          "Aziz",
		LoyaltyPoints: 100,
		JoinedDate:    "2026-08-01T12:00:00Z",
	}
}

func userStore(backend kv.Store) *store.Store[models.User] {
	return store.New(backend, "session:test", store.DefaultTTL, models.ValidUser)
}

func TestReadAfterWriteRoundTrips(t *testing.T) {
	backend := kv.NewMemory()
	s := userStore(backend)

	want := testUser()
	s.Write(want)

	got, ok := s.Read()
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestReadMissingKey(t *testing.T) {
	s := userStore(kv.NewMemory())

	_, ok := s.Read()
	assert.False(t, ok)
}

func TestExpiredEnvelopeIsErased(t *testing.T) {
	backend := kv.NewMemory()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := userStore(backend).WithClock(func() time.Time { return now })

	s.Write(testUser())

	// 31 days later the 30-day envelope must be gone.
	now = now.Add(31 * 24 * time.Hour)

	_, ok := s.Read()
	assert.False(t, ok)

	_, found, err := backend.Get("session:test")
	require.NoError(t, err)
	assert.False(t, found, "expired entry must be removed from storage")
}

func TestEnvelopeJustBeforeExpiryStillReads(t *testing.T) {
	backend := kv.NewMemory()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s := userStore(backend).WithClock(func() time.Time { return now })

	s.Write(testUser())
	now = now.Add(29 * 24 * time.Hour)

	_, ok := s.Read()
	assert.True(t, ok)
}

func TestCorruptEntryIsErased(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set("session:test", "{not json"))

	s := userStore(backend)

	_, ok := s.Read()
	assert.False(t, ok)

	_, found, err := backend.Get("session:test")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidPayloadInEnvelopeIsErased(t *testing.T) {
	backend := kv.NewMemory()
	raw := `{"version":1,"expiresAt":99999999999999,"value":{"id":"","phone":"","name":"","loyaltyPoints":-1,"joinedDate":""}}`
	require.NoError(t, backend.Set("session:test", raw))

	s := userStore(backend)

	_, ok := s.Read()
	assert.False(t, ok)

	_, found, err := backend.Get("session:test")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUnknownEnvelopeVersionIsErased(t *testing.T) {
	backend := kv.NewMemory()

	// A well-formed, unexpired envelope from a future schema. Its payload
	// would pass the current validator, but the version tag disqualifies it.
	raw := `{"version":2,"expiresAt":99999999999999,"value":{"id":"998901234567","phone":"998901234567","name":"Aziz","loyaltyPoints":100,"joinedDate":"2026-08-01T12:00:00Z"}}`
	require.NoError(t, backend.Set("session:test", raw))

	s := userStore(backend)

	_, ok := s.Read()
	assert.False(t, ok)

	_, found, err := backend.Get("session:test")
	require.NoError(t, err)
	assert.False(t, found, "unrecognized-version entry must be removed from storage")
}

func TestLegacyBareValueIsMigrated(t *testing.T) {
	backend := kv.NewMemory()

	legacy, err := json.Marshal(testUser())
	require.NoError(t, err)
	require.NoError(t, backend.Set("session:test", string(legacy)))

	s := userStore(backend)

	got, ok := s.Read()
	require.True(t, ok)
	assert.Equal(t, testUser(), got)

	// The entry must now be enveloped.
	raw, found, err := backend.Get("session:test")
	require.NoError(t, err)
	require.True(t, found)

	var env struct {
		Version   *int   `json:"version"`
		ExpiresAt *int64 `json:"expiresAt"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	require.NotNil(t, env.Version)
	require.NotNil(t, env.ExpiresAt)
	assert.Equal(t, store.EnvelopeVersion, *env.Version)
}

func TestLegacyMigrationIsIdempotent(t *testing.T) {
	backend := kv.NewMemory()

	legacyList, err := json.Marshal([]models.Order{{
		ID:     "order-1",
		Date:   "2026-08-01T12:00:00Z",
		Items:  []models.CartLine{},
		Total:  45000,
		Status: models.OrderStatusPending,
	}})
	require.NoError(t, err)
	require.NoError(t, backend.Set("orders", string(legacyList)))

	s := store.New(backend, "orders", store.DefaultTTL, models.ValidOrders)

	first, ok := s.Read()
	require.True(t, ok)

	migrated, _, err := backend.Get("orders")
	require.NoError(t, err)

	second, ok := s.Read()
	require.True(t, ok)
	assert.Equal(t, first, second)

	// A second read must not rewrite the entry again.
	after, _, err := backend.Get("orders")
	require.NoError(t, err)
	assert.Equal(t, migrated, after)
}

func TestLegacyValueFailingValidatorIsErased(t *testing.T) {
	backend := kv.NewMemory()
	require.NoError(t, backend.Set("session:test", `{"id":"x"}`))

	s := userStore(backend)

	_, ok := s.Read()
	assert.False(t, ok)

	_, found, err := backend.Get("session:test")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLogoutScenarioEraseRemovesEntry(t *testing.T) {
	backend := kv.NewMemory()
	s := userStore(backend)

	s.Write(testUser())
	s.Erase()

	_, found, err := backend.Get("session:test")
	require.NoError(t, err)
	assert.False(t, found)
}

// failingKV always errors to prove Write never fails the caller.
type failingKV struct{}

func (failingKV) Get(string) (string, bool, error) { return "", false, errors.New("backend down") }
func (failingKV) Set(string, string) error         { return errors.New("backend down") }
func (failingKV) Remove(string) error              { return errors.New("backend down") }

func TestWriteSwallowsBackendErrors(t *testing.T) {
	s := store.New[models.User](failingKV{}, "session:test", store.DefaultTTL, models.ValidUser)

	assert.NotPanics(t, func() { s.Write(testUser()) })

	_, ok := s.Read()
	assert.False(t, ok)
}
