package core

import "time"

// AuthMethod identifies how a request was authenticated.
type AuthMethod string

const (
	MethodAPIKey AuthMethod = "api-key"
	MethodDID    AuthMethod = "did"
	MethodNone   AuthMethod = "none"
)

// Challenge represents a single-use authentication challenge
type Challenge struct {
	ID        string    // Unique identifier for the challenge
	ClientDID string    // DID of the client that requested the challenge
	Nonce     string    // Random nonce to be signed by the client
	IssuedAt  time.Time // When the challenge was created
	ExpiresAt time.Time // When the challenge expires
	Consumed  bool      // Whether the challenge has been used
}

// Expired reports whether the challenge TTL has elapsed at the given time.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Identity is the result of a successful authentication. For DID
// authentication the claims carry attributes from the resolved document.
type Identity struct {
	Subject string            // DID of the caller
	Claims  map[string]string // Document-carried attributes, may be empty
}

// TokenClaims is the decoded content of an access token.
type TokenClaims struct {
	ID        string // jti, unique per token
	Subject   string // DID of the token holder
	Issuer    string // Service DID that issued the token
	Audience  string // Service DID the token is intended for
	Scope     string // Granted permission label
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthContext is the per-request authentication outcome produced by the
// policy middleware. Method is MethodNone iff Authenticated is false;
// Identity is non-nil iff Authenticated is true.
type AuthContext struct {
	Authenticated bool
	Method        AuthMethod
	Identity      *Identity
}

// Anonymous returns the AuthContext for an unauthenticated request.
func Anonymous() *AuthContext {
	return &AuthContext{Authenticated: false, Method: MethodNone}
}
