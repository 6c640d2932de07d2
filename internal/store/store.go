// Package store persists typed values through a versioned, TTL-expiring
// JSON envelope. The same contract serves the user session, the order
// history and pending OTP codes, so it is implemented once, generically.
package store

import (
	"encoding/json"
	"log"
	"time"

	"github.com/example/samsa/internal/kv"
)

// EnvelopeVersion is the current schema tag written into every envelope.
const EnvelopeVersion = 1

// DefaultTTL is how long a persisted envelope stays valid.
const DefaultTTL = 30 * 24 * time.Hour

// envelope wraps a payload with its schema version and absolute expiry in
// epoch milliseconds.
type envelope struct {
	Version   int             `json:"version"`
	ExpiresAt int64           `json:"expiresAt"`
	Value     json.RawMessage `json:"value"`
}

// probe mirrors envelope with optional tags so a decoded blob can be told
// apart from a legacy bare value.
type probe struct {
	Version   *int            `json:"version"`
	ExpiresAt *int64          `json:"expiresAt"`
	Value     json.RawMessage `json:"value"`
}

// Store reads and writes one enveloped value of type T under a fixed key.
// All failure modes degrade to "no prior state": Read never errors, Write
// never fails the caller.
type Store[T any] struct {
	kv       kv.Store
	key      string
	ttl      time.Duration
	validate func(T) bool
	now      func() time.Time
}

// New builds a store for key with the given TTL and payload validator.
func New[T any](backend kv.Store, key string, ttl time.Duration, validate func(T) bool) *Store[T] {
	return &Store[T]{
		kv:       backend,
		key:      key,
		ttl:      ttl,
		validate: validate,
		now:      time.Now,
	}
}

// WithClock overrides the store's clock. Tests use this to simulate expiry.
func (s *Store[T]) WithClock(now func() time.Time) *Store[T] {
	s.now = now
	return s
}

// Write wraps v in a fresh envelope and persists it, overwriting any prior
// entry. Persistence errors are logged and swallowed; in-memory state stays
// the source of truth for the current session.
func (s *Store[T]) Write(v T) {
	value, err := json.Marshal(v)
	if err != nil {
		log.Printf("[Store] marshal %s payload: %v", s.key, err)
		return
	}

	env := envelope{
		Version:   EnvelopeVersion,
		ExpiresAt: s.now().Add(s.ttl).UnixMilli(),
		Value:     value,
	}

	raw, err := json.Marshal(env)
	if err != nil {
		log.Printf("[Store] marshal %s envelope: %v", s.key, err)
		return
	}

	if err := s.kv.Set(s.key, string(raw)); err != nil {
		log.Printf("[Store] persist %s: %v", s.key, err)
	}
}

// Read returns the stored payload, or ok=false when there is no usable
// state. Expired, corrupt and unrecognizable entries are erased on the way
// out. A legacy bare value that still passes the validator is migrated to
// the envelope format, resetting its TTL from the read moment.
func (s *Store[T]) Read() (T, bool) {
	var zero T

	raw, found, err := s.kv.Get(s.key)
	if err != nil {
		log.Printf("[Store] read %s: %v", s.key, err)
		return zero, false
	}
	if !found {
		return zero, false
	}

	var p probe
	if err := json.Unmarshal([]byte(raw), &p); err == nil && p.Version != nil && p.ExpiresAt != nil {
		// An envelope from a schema this build does not know is
		// unrecognizable, not a candidate for v1 semantics.
		if *p.Version != EnvelopeVersion {
			s.Erase()
			return zero, false
		}
		var v T
		if err := json.Unmarshal(p.Value, &v); err != nil || !s.validate(v) {
			s.Erase()
			return zero, false
		}
		if s.now().UnixMilli() > *p.ExpiresAt {
			s.Erase()
			return zero, false
		}
		return v, true
	}

	// Legacy bare-value format: accept once, rewrite enveloped.
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err == nil && s.validate(v) {
		s.Write(v)
		return v, true
	}

	s.Erase()
	return zero, false
}

// Erase removes the entry unconditionally.
func (s *Store[T]) Erase() {
	if err := s.kv.Remove(s.key); err != nil {
		log.Printf("[Store] erase %s: %v", s.key, err)
	}
}
