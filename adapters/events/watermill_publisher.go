package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/layer-3/aegis/ports"
)

// Topics for auth lifecycle events
const (
	LoginTopic      = "aegis.login"
	RevocationTopic = "aegis.token_revoked"
)

// LoginEvent is published after a successful challenge verification
type LoginEvent struct {
	DID     string `json:"did"`
	TokenID string `json:"token_id"`
}

// RevocationEvent is published when a token is revoked
type RevocationEvent struct {
	Subject string `json:"subject"`
	TokenID string `json:"token_id"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishLogin publishes a login event
func (p *WatermillPublisher) PublishLogin(ctx context.Context, did string, tokenID string) error {
	return p.publish(LoginTopic, tokenID, LoginEvent{DID: did, TokenID: tokenID})
}

// PublishRevocation publishes a revocation event
func (p *WatermillPublisher) PublishRevocation(ctx context.Context, subject string, tokenID string) error {
	return p.publish(RevocationTopic, tokenID, RevocationEvent{Subject: subject, TokenID: tokenID})
}

func (p *WatermillPublisher) publish(topic, id string, event interface{}) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(id, payload)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
