package ports

import "context"

// EventPublisher publishes auth lifecycle events to notify other services
type EventPublisher interface {
	PublishLogin(ctx context.Context, did string, tokenID string) error
	PublishRevocation(ctx context.Context, subject string, tokenID string) error
}
