package ports

import "github.com/layer-3/aegis/core"

// SignatureVerifier checks a signature over a message against one
// verification method from a resolved DID document.
type SignatureVerifier interface {
	Verify(method core.VerificationMethod, message, signature []byte) error
}
