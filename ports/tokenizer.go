package ports

import "github.com/layer-3/aegis/core"

// Tokenizer converts between identities and signed access tokens
type Tokenizer interface {
	// Issue builds and signs an access token for the identity
	Issue(identity *core.Identity, scope string) (string, *core.TokenClaims, error)

	// Verify checks signature and expiry and returns the decoded claims
	Verify(token string) (*core.TokenClaims, error)

	// Decode checks the signature but skips expiry validation. Used for
	// revocation, which must work on already-expired tokens.
	Decode(token string) (*core.TokenClaims, error)
}
