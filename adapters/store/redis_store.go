package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/layer-3/aegis/core"
)

const (
	challengePrefix = "aegis:challenge:"
	consumedPrefix  = "aegis:consumed:"
	revokedPrefix   = "aegis:revoked:"
)

// RedisChallengeStore is a Redis implementation of the ChallengeStore
// interface. GETDEL makes consumption atomic across instances; a consumed
// tombstone key distinguishes already-consumed from never-existed.
type RedisChallengeStore struct {
	client *redis.Client
}

// NewRedisChallengeStore creates a new Redis challenge store
func NewRedisChallengeStore(client *redis.Client) *RedisChallengeStore {
	return &RedisChallengeStore{client: client}
}

// Create stores a pending challenge. The key outlives the challenge TTL by
// the tombstone grace so that late consume attempts report expiry rather
// than not-found.
func (s *RedisChallengeStore) Create(ctx context.Context, challenge *core.Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal challenge: %w", err)
	}

	ttl := time.Until(challenge.ExpiresAt) + tombstoneGrace
	if err := s.client.Set(ctx, challengePrefix+challenge.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", core.ErrStoreOperation)
	}

	return nil
}

// Consume atomically removes the challenge and writes a consumed tombstone.
func (s *RedisChallengeStore) Consume(ctx context.Context, id string) (*core.Challenge, error) {
	payload, err := s.client.GetDel(ctx, challengePrefix+id).Result()
	if err == redis.Nil {
		exists, err := s.client.Exists(ctx, consumedPrefix+id).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to check tombstone: %w", core.ErrStoreOperation)
		}
		if exists > 0 {
			return nil, core.ErrChallengeConsumed
		}
		return nil, core.ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume challenge: %w", core.ErrStoreOperation)
	}

	if err := s.client.Set(ctx, consumedPrefix+id, "1", tombstoneGrace).Err(); err != nil {
		return nil, fmt.Errorf("failed to write tombstone: %w", core.ErrStoreOperation)
	}

	var challenge core.Challenge
	if err := json.Unmarshal([]byte(payload), &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal challenge: %w", err)
	}
	challenge.Consumed = true

	if challenge.Expired(time.Now()) {
		return nil, core.ErrChallengeExpired
	}

	return &challenge, nil
}

// RedisRevocationStore is a Redis implementation of the RevocationStore
// interface
type RedisRevocationStore struct {
	client *redis.Client
}

// NewRedisRevocationStore creates a new Redis revocation store
func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Revoke marks a token ID as invalidated in Redis
func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", core.ErrStoreOperation)
	}
	return nil
}

// IsRevoked checks if a token ID is invalidated in Redis
func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, err := s.client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", core.ErrStoreOperation)
	}
	return val > 0, nil
}
