package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/aegis/core"
)

func newChallenge(id string, ttl time.Duration) *core.Challenge {
	now := time.Now()
	return &core.Challenge{
		ID:        id,
		ClientDID: "did:example:alice",
		Nonce:     "6e6f6e6365",
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryChallengeStore_ConsumeOnce(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newChallenge("c1", time.Minute)))

	challenge, err := s.Consume(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", challenge.ID)
	assert.Equal(t, "did:example:alice", challenge.ClientDID)

	_, err = s.Consume(ctx, "c1")
	assert.ErrorIs(t, err, core.ErrChallengeConsumed)
}

func TestMemoryChallengeStore_NotFound(t *testing.T) {
	s := NewMemoryChallengeStore()

	_, err := s.Consume(context.Background(), "missing")
	assert.ErrorIs(t, err, core.ErrChallengeNotFound)
}

func TestMemoryChallengeStore_ExpiredIsConsumed(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newChallenge("c1", -time.Second)))

	_, err := s.Consume(ctx, "c1")
	assert.ErrorIs(t, err, core.ErrChallengeExpired)

	// The expired attempt must have consumed the entry: a retry reports
	// already-consumed, not a second expiry check.
	_, err = s.Consume(ctx, "c1")
	assert.ErrorIs(t, err, core.ErrChallengeConsumed)
}

func TestMemoryChallengeStore_ConcurrentConsume(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newChallenge("c1", time.Minute)))

	const callers = 32
	var wg sync.WaitGroup
	var live, consumed int64
	var mu sync.Mutex

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Consume(ctx, "c1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				live++
			case errors.Is(err, core.ErrChallengeConsumed):
				consumed++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), live, "exactly one caller must get the live challenge")
	assert.Equal(t, int64(callers-1), consumed)
}

func TestMemoryChallengeStore_CreateCopies(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()

	original := newChallenge("c1", time.Minute)
	require.NoError(t, s.Create(ctx, original))
	original.Nonce = "mutated"

	challenge, err := s.Consume(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "6e6f6e6365", challenge.Nonce)
}

func TestMemoryRevocationStore_RevokeAndCheck(t *testing.T) {
	s := NewMemoryRevocationStore()
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Idempotent
	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryRevocationStore_EntryExpires(t *testing.T) {
	s := NewMemoryRevocationStore()
	ctx := context.Background()

	require.NoError(t, s.Revoke(ctx, "jti-1", 10*time.Millisecond))

	assert.Eventually(t, func() bool {
		revoked, err := s.IsRevoked(ctx, "jti-1")
		return err == nil && !revoked
	}, time.Second, 10*time.Millisecond)
}
