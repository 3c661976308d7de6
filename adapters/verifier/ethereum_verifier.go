package verifier

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/ports"
)

// EthereumVerifier verifies EcdsaSecp256k1RecoveryMethod2020 methods: the
// signer's address is recovered from a personal-sign signature over the
// message and compared to the method's blockchain account id.
type EthereumVerifier struct{}

// NewEthereumVerifier creates a new Ethereum personal-sign verifier
func NewEthereumVerifier() *EthereumVerifier {
	return &EthereumVerifier{}
}

// Verify recovers the signing address and compares it to the expected one.
func (v *EthereumVerifier) Verify(method core.VerificationMethod, message, signature []byte) error {
	if len(signature) != crypto.SignatureLength {
		return fmt.Errorf("signature must be %d bytes: %w", crypto.SignatureLength, core.ErrInvalidSignature)
	}

	expected := method.BlockchainAccountID
	// CAIP-10 form eip155:<chain>:<address> carries the address last
	if i := strings.LastIndex(expected, ":"); i >= 0 {
		expected = expected[i+1:]
	}
	if !common.IsHexAddress(expected) {
		return fmt.Errorf("invalid account id %q: %w", method.BlockchainAccountID, core.ErrInvalidSignature)
	}

	// Wallets return V as 27/28, crypto.SigToPub expects 0/1
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return fmt.Errorf("failed to recover signer: %w", core.ErrInvalidSignature)
	}

	if crypto.PubkeyToAddress(*pubKey) != common.HexToAddress(expected) {
		return core.ErrInvalidSignature
	}

	return nil
}

var _ ports.SignatureVerifier = (*EthereumVerifier)(nil)
