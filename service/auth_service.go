package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/google/uuid"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/ports"
)

// minRevocationTTL is the margin a revocation entry lives past the token's
// exp, covering verification leeway and skewed clocks on other instances.
// It doubles as the floor for tokens that are already expired.
const minRevocationTTL = time.Hour

// AuthService orchestrates the challenge-response authentication flow and
// the access token lifecycle.
type AuthService struct {
	challenges  ports.ChallengeStore
	revocations ports.RevocationStore
	tokenizer   ports.Tokenizer
	resolver    ports.Resolver
	verifier    ports.SignatureVerifier
	eventPub    ports.EventPublisher
	logger      watermill.LoggerAdapter

	challengeTTL    time.Duration
	resolverTimeout time.Duration
}

// NewAuthService creates a new authentication service. eventPub may be nil
// when no broker is configured.
func NewAuthService(
	challenges ports.ChallengeStore,
	revocations ports.RevocationStore,
	tokenizer ports.Tokenizer,
	resolver ports.Resolver,
	verifier ports.SignatureVerifier,
	eventPub ports.EventPublisher,
	logger watermill.LoggerAdapter,
	challengeTTL time.Duration,
	resolverTimeout time.Duration,
) *AuthService {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	return &AuthService{
		challenges:      challenges,
		revocations:     revocations,
		tokenizer:       tokenizer,
		resolver:        resolver,
		verifier:        verifier,
		eventPub:        eventPub,
		logger:          logger,
		challengeTTL:    challengeTTL,
		resolverTimeout: resolverTimeout,
	}
}

// CreateChallenge generates a new single-use challenge for the claimed DID
func (s *AuthService) CreateChallenge(ctx context.Context, did string) (*core.Challenge, error) {
	if !core.ValidDID(did) {
		return nil, fmt.Errorf("%q: %w", did, core.ErrInvalidDID)
	}

	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %v: %w", err, core.ErrChallengeCreation)
	}

	now := time.Now()
	challenge := &core.Challenge{
		ID:        uuid.New().String(),
		ClientDID: did,
		Nonce:     hex.EncodeToString(nonceBytes),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.challengeTTL),
	}

	if err := s.challenges.Create(ctx, challenge); err != nil {
		return nil, fmt.Errorf("failed to store challenge: %v: %w", err, core.ErrChallengeCreation)
	}

	s.logger.Info("challenge created", watermill.LogFields{
		"challenge_id": challenge.ID,
		"did":          did,
	})

	return challenge, nil
}

// VerifyChallenge runs the verification pipeline: consume the challenge,
// resolve the claimed identity, check the signature over the nonce, then
// issue an access token. The challenge is consumed before anything else so
// it cannot be replayed even when resolution is slow or fails.
func (s *AuthService) VerifyChallenge(ctx context.Context, challengeID, response, scope string) (string, *core.TokenClaims, *core.Identity, error) {
	challenge, err := s.challenges.Consume(ctx, challengeID)
	if err != nil {
		s.logger.Info("challenge consume failed", watermill.LogFields{
			"challenge_id": challengeID,
			"reason":       err.Error(),
		})
		return "", nil, nil, err
	}

	resolveCtx, cancel := context.WithTimeout(ctx, s.resolverTimeout)
	defer cancel()

	doc, err := s.resolver.Resolve(resolveCtx, challenge.ClientDID)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to resolve %s: %w", challenge.ClientDID, err)
	}

	signature, err := decodeSignature(response)
	if err != nil {
		return "", nil, nil, err
	}

	method, err := s.verifySignature(doc, []byte(challenge.Nonce), signature)
	if err != nil {
		return "", nil, nil, err
	}

	identity := &core.Identity{
		Subject: challenge.ClientDID,
		Claims:  map[string]string{"kid": method.ID},
	}

	token, claims, err := s.tokenizer.Issue(identity, scope)
	if err != nil {
		return "", nil, nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("challenge verified", watermill.LogFields{
		"did":      identity.Subject,
		"token_id": claims.ID,
		"scope":    scope,
	})

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogin(ctx, identity.Subject, claims.ID); err != nil {
			// The token is already issued; event delivery is best effort
			s.logger.Error("failed to publish login event", err, watermill.LogFields{"token_id": claims.ID})
		}
	}

	return token, claims, identity, nil
}

// ValidateAccessToken verifies a bearer token and checks it against the
// revocation registry. Revocation is checked only after the signature and
// expiry pass, so holders of garbage tokens learn nothing about it.
func (s *AuthService) ValidateAccessToken(ctx context.Context, token string) (*core.TokenClaims, error) {
	claims, err := s.tokenizer.Verify(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %v: %w", err, core.ErrRevocation)
	}
	if revoked {
		return nil, core.ErrTokenRevoked
	}

	return claims, nil
}

// RevokeToken invalidates a token by its jti. The token's signature must
// check out, but an already-expired token is still accepted so clients can
// always clean up. Revoking twice is not an error.
func (s *AuthService) RevokeToken(ctx context.Context, token string) (*core.TokenClaims, error) {
	claims, err := s.tokenizer.Decode(token)
	if err != nil {
		return nil, err
	}

	// The entry must outlive exp plus any verification leeway, so the
	// floor is added on top of the remaining validity rather than only
	// backstopping expired tokens.
	ttl := time.Until(claims.ExpiresAt) + minRevocationTTL
	if ttl < minRevocationTTL {
		ttl = minRevocationTTL
	}

	if err := s.revocations.Revoke(ctx, claims.ID, ttl); err != nil {
		return nil, fmt.Errorf("failed to revoke token: %v: %w", err, core.ErrRevocation)
	}

	s.logger.Info("token revoked", watermill.LogFields{
		"token_id": claims.ID,
		"subject":  claims.Subject,
	})

	if s.eventPub != nil {
		if err := s.eventPub.PublishRevocation(ctx, claims.Subject, claims.ID); err != nil {
			s.logger.Error("failed to publish revocation event", err, watermill.LogFields{"token_id": claims.ID})
		}
	}

	return claims, nil
}

// verifySignature tries the document's authentication methods in order and
// returns the first one the signature verifies against.
func (s *AuthService) verifySignature(doc *core.DIDDocument, message, signature []byte) (*core.VerificationMethod, error) {
	methods := authenticationMethods(doc)
	if len(methods) == 0 {
		return nil, fmt.Errorf("document has no authentication methods: %w", core.ErrInvalidSignature)
	}

	for i := range methods {
		if err := s.verifier.Verify(methods[i], message, signature); err == nil {
			return &methods[i], nil
		}
	}

	return nil, core.ErrInvalidSignature
}

// authenticationMethods returns the verification methods referenced by the
// document's authentication section, or every method when the section is
// empty.
func authenticationMethods(doc *core.DIDDocument) []core.VerificationMethod {
	if len(doc.Authentication) == 0 {
		return doc.VerificationMethod
	}

	referenced := make(map[string]bool, len(doc.Authentication))
	for _, id := range doc.Authentication {
		referenced[id] = true
	}

	var methods []core.VerificationMethod
	for _, m := range doc.VerificationMethod {
		if referenced[m.ID] {
			methods = append(methods, m)
		}
	}
	return methods
}

func decodeSignature(response string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(response), "0x")
	signature, err := hex.DecodeString(trimmed)
	if err != nil || len(signature) == 0 {
		return nil, fmt.Errorf("signature must be hex encoded: %w", core.ErrInvalidSignature)
	}
	return signature, nil
}
