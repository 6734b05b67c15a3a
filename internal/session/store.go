// Package session tracks per-session state: the loaded observation, the
// catalogs in load order and each molecule's fit parameters.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/laserkelvin/Spectron3000/internal/model"
)

// Store maps session IDs to state with TTL expiry. Sessions idle past the
// TTL are evicted; nothing is ever persisted.
type Store struct {
	cache    *gocache.Cache
	ttl      time.Duration
	defaults model.FitParams
}

// NewStore creates a session store with the configured TTL and cleanup
// interval. Fresh catalogs in every session are seeded with defaults.
func NewStore(cfg model.SessionConfig, defaults model.FitParams) *Store {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = 5 * time.Minute
	}
	return &Store{
		cache:    gocache.New(ttl, cleanup),
		ttl:      ttl,
		defaults: defaults.Normalize(),
	}
}

// Get retrieves the state for an existing session ID.
func (s *Store) Get(id string) (*State, bool) {
	if val, found := s.cache.Get(id); found {
		return val.(*State), true
	}
	return nil, false
}

// GetOrCreate returns the state for id, minting a fresh ID when none is
// given and fresh state when the session is unknown or expired. Every
// access refreshes the TTL.
func (s *Store) GetOrCreate(id string) (string, *State, error) {
	if id != "" {
		if st, ok := s.Get(id); ok {
			s.cache.Set(id, st, s.ttl)
			return id, st, nil
		}
	} else {
		var err error
		id, err = newSessionID()
		if err != nil {
			return "", nil, err
		}
	}

	st := NewState(s.defaults)
	s.cache.Set(id, st, s.ttl)
	return id, st, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	return s.cache.ItemCount()
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
