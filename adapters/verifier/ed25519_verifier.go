// Package verifier implements the signature suites accepted during
// challenge verification. Suites are registered per verification-method
// type; unknown types fail verification rather than being guessed at.
package verifier

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/ports"
)

// Ed25519Verifier verifies Ed25519VerificationKey2020 methods carrying a
// hex-encoded public key.
type Ed25519Verifier struct{}

// NewEd25519Verifier creates a new Ed25519 signature verifier
func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{}
}

// Verify checks an Ed25519 signature over the message.
func (v *Ed25519Verifier) Verify(method core.VerificationMethod, message, signature []byte) error {
	keyHex := strings.TrimPrefix(method.PublicKeyHex, "0x")
	publicKey, err := hex.DecodeString(keyHex)
	if err != nil {
		return fmt.Errorf("invalid public key encoding: %w", core.ErrInvalidSignature)
	}
	if len(publicKey) != ed25519.PublicKeySize {
		return fmt.Errorf("public key must be %d bytes: %w", ed25519.PublicKeySize, core.ErrInvalidSignature)
	}
	if len(signature) != ed25519.SignatureSize {
		return fmt.Errorf("signature must be %d bytes: %w", ed25519.SignatureSize, core.ErrInvalidSignature)
	}

	if !ed25519.Verify(publicKey, message, signature) {
		return core.ErrInvalidSignature
	}

	return nil
}

var _ ports.SignatureVerifier = (*Ed25519Verifier)(nil)
