package store

import (
	"context"
	"sync"
	"time"

	"github.com/layer-3/aegis/core"
)

// tombstoneGrace is how long a consumed or expired challenge entry is kept
// around so that repeat consume attempts report the right error instead of
// not-found.
const tombstoneGrace = 10 * time.Minute

// MemoryChallengeStore is an in-memory implementation of the ChallengeStore
// interface. State is process-local: pending challenges are lost on restart
// and are not shared between instances. Use RedisChallengeStore for
// multi-instance deployments.
type MemoryChallengeStore struct {
	challenges map[string]*core.Challenge
	mu         sync.Mutex
}

// NewMemoryChallengeStore creates a new in-memory challenge store
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		challenges: make(map[string]*core.Challenge),
	}
}

// Create stores a pending challenge and schedules its removal after the
// tombstone grace period past expiry.
func (s *MemoryChallengeStore) Create(ctx context.Context, challenge *core.Challenge) error {
	s.mu.Lock()
	c := *challenge
	s.challenges[c.ID] = &c
	s.mu.Unlock()

	go func() {
		time.Sleep(time.Until(challenge.ExpiresAt) + tombstoneGrace)

		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.challenges, challenge.ID)
	}()

	return nil
}

// Consume retrieves a challenge and marks it consumed in one critical
// section, so only the first caller ever observes the live challenge.
// Expired challenges are marked consumed too, which closes the retry race
// between expiry and verification.
func (s *MemoryChallengeStore) Consume(ctx context.Context, id string) (*core.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge, ok := s.challenges[id]
	if !ok {
		return nil, core.ErrChallengeNotFound
	}

	if challenge.Consumed {
		return nil, core.ErrChallengeConsumed
	}
	challenge.Consumed = true

	if challenge.Expired(time.Now()) {
		return nil, core.ErrChallengeExpired
	}

	c := *challenge
	return &c, nil
}

// MemoryRevocationStore is an in-memory implementation of the
// RevocationStore interface. Like the challenge store it is process-local;
// a restart forgets all revocations that have not yet expired naturally.
type MemoryRevocationStore struct {
	revoked map[string]time.Time
	mu      sync.RWMutex
}

// NewMemoryRevocationStore creates a new in-memory revocation store
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		revoked: make(map[string]time.Time),
	}
}

// Revoke records a token ID as invalidated for the given duration.
// Revoking the same ID again extends the entry and is not an error.
func (s *MemoryRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	expiryTime := time.Now().Add(ttl)
	if existing, ok := s.revoked[tokenID]; !ok || expiryTime.After(existing) {
		s.revoked[tokenID] = expiryTime
	}
	s.mu.Unlock()

	go func() {
		time.Sleep(ttl)

		s.mu.Lock()
		defer s.mu.Unlock()

		// Only delete if the expiry time hasn't been extended since
		if storedExpiry, exists := s.revoked[tokenID]; exists && !storedExpiry.After(expiryTime) {
			delete(s.revoked, tokenID)
		}
	}()

	return nil
}

// IsRevoked checks whether a token ID is currently revoked.
func (s *MemoryRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expiryTime, exists := s.revoked[tokenID]
	if !exists {
		return false, nil
	}

	if time.Now().After(expiryTime) {
		return false, nil
	}

	return true, nil
}
