package core

import "errors"

var (
	ErrInvalidDID           = errors.New("invalid DID")
	ErrChallengeCreation    = errors.New("challenge creation failed")
	ErrChallengeNotFound    = errors.New("challenge not found")
	ErrChallengeExpired     = errors.New("challenge has expired")
	ErrChallengeConsumed    = errors.New("challenge already consumed")
	ErrIdentityUnresolvable = errors.New("identity could not be resolved")
	ErrInvalidSignature     = errors.New("invalid signature")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrRevocation           = errors.New("revocation operation failed")
	ErrInvalidAPIKey        = errors.New("invalid API key")
	ErrUnauthorized         = errors.New("authentication required")
	ErrDIDGeneration        = errors.New("service DID document generation failed")
	ErrDIDDisabled          = errors.New("DID authentication is disabled")
	ErrStoreOperation       = errors.New("store operation failed")
)

// ErrorCode maps a domain error to its stable wire code. Unrecognized
// errors map to an internal code so handlers never leak raw messages.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDID):
		return "validation/invalid-input"
	case errors.Is(err, ErrInvalidAPIKey):
		return "auth/invalid-api-key"
	case errors.Is(err, ErrUnauthorized):
		return "auth/unauthorized"
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenExpired), errors.Is(err, ErrTokenRevoked):
		return "auth/invalid-token"
	case errors.Is(err, ErrChallengeNotFound), errors.Is(err, ErrChallengeExpired),
		errors.Is(err, ErrChallengeConsumed), errors.Is(err, ErrIdentityUnresolvable),
		errors.Is(err, ErrInvalidSignature):
		return "auth/challenge-verification-failed"
	case errors.Is(err, ErrChallengeCreation):
		return "auth/challenge-creation-failed"
	case errors.Is(err, ErrRevocation):
		return "auth/revocation-error"
	case errors.Is(err, ErrDIDGeneration):
		return "did/generation-error"
	case errors.Is(err, ErrDIDDisabled):
		return "auth/did-disabled"
	default:
		return "internal/error"
	}
}
