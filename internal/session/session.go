// Package session manages customer records and pending OTP codes on top of
// the versioned expiring store.
package session

import (
	"time"

	"github.com/example/samsa/internal/kv"
	"github.com/example/samsa/internal/models"
	"github.com/example/samsa/internal/store"
	"github.com/example/samsa/internal/utils"
)

const (
	// WelcomeBonus is the loyalty balance granted on first verification.
	WelcomeBonus = 100

	// DefaultName is the placeholder profile name for new customers.
	DefaultName = "Guest"

	// otpTTL bounds how long a one-time code stays redeemable.
	otpTTL = 10 * time.Minute
)

// Manager reads and writes customer and OTP state.
type Manager struct {
	backend kv.Store
	now     func() time.Time
}

// NewManager builds a session manager over the given persistence backend.
func NewManager(backend kv.Store) *Manager {
	return &Manager{backend: backend, now: time.Now}
}

// WithClock overrides the manager's clock for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) userStore(id string) *store.Store[models.User] {
	return store.New(m.backend, "session:"+id, store.DefaultTTL, models.ValidUser).WithClock(m.now)
}

func (m *Manager) otpStore(phone string) *store.Store[models.OTP] {
	return store.New(m.backend, "otp:"+phone, otpTTL, models.ValidOTP).WithClock(m.now)
}

// IssueCode stores a bcrypt hash of code for phone, replacing any pending
// one. The plain code never touches the backend.
func (m *Manager) IssueCode(phone, code string) error {
	hash, err := utils.HashCode(code)
	if err != nil {
		return err
	}

	m.otpStore(phone).Write(models.OTP{Phone: phone, CodeHash: hash})
	return nil
}

// RedeemCode checks code against the pending OTP for phone. A matching code
// is consumed; a missing or expired one reports false.
func (m *Manager) RedeemCode(phone, code string) bool {
	otps := m.otpStore(phone)

	otp, ok := otps.Read()
	if !ok {
		return false
	}

	if !utils.CheckCode(otp.CodeHash, code) {
		return false
	}

	otps.Erase()
	return true
}

// FindOrCreate returns the customer record for a normalized phone, creating
// it with the welcome bonus on first sight.
func (m *Manager) FindOrCreate(phone string) models.User {
	users := m.userStore(phone)

	if user, ok := users.Read(); ok {
		return user
	}

	user := models.User{
		ID:            phone,
		Phone:         phone,
		Name:          DefaultName,
		LoyaltyPoints: WelcomeBonus,
		JoinedDate:    m.now().Format(time.RFC3339),
	}
	users.Write(user)

	return user
}

// Get returns the customer record for id, if present and unexpired.
func (m *Manager) Get(id string) (models.User, bool) {
	return m.userStore(id).Read()
}

// UpdateName changes a customer's profile name.
func (m *Manager) UpdateName(id, name string) (models.User, bool) {
	users := m.userStore(id)

	user, ok := users.Read()
	if !ok {
		return models.User{}, false
	}

	user.Name = name
	users.Write(user)
	return user, true
}

// AddLoyaltyPoints credits points to a customer after checkout.
func (m *Manager) AddLoyaltyPoints(id string, points int) {
	users := m.userStore(id)

	user, ok := users.Read()
	if !ok {
		return
	}

	user.LoyaltyPoints += points
	users.Write(user)
}

// Logout erases the local session entry. The customer record semantics are
// session-scoped, so this is the only deletion the system ever performs.
func (m *Manager) Logout(id string) {
	m.userStore(id).Erase()
}
