package ports

import (
	"context"
	"time"

	"github.com/layer-3/aegis/core"
)

// ChallengeStore holds pending single-use challenges. Consume must be
// atomic: under concurrent calls with the same id exactly one caller
// receives the live challenge, every other caller gets
// core.ErrChallengeConsumed. An expired challenge is marked consumed and
// returned as core.ErrChallengeExpired so it can never be retried.
type ChallengeStore interface {
	Create(ctx context.Context, challenge *core.Challenge) error
	Consume(ctx context.Context, id string) (*core.Challenge, error)
}

// RevocationStore tracks invalidated token IDs until their natural expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
