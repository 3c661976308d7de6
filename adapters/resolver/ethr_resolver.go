package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/ports"
)

// EthrResolver resolves did:ethr identifiers. The verification key is the
// Ethereum address embedded in the DID itself, so no network round trip is
// needed: the document is synthesized with a single secp256k1 recovery
// verification method.
type EthrResolver struct{}

// NewEthrResolver creates a new did:ethr resolver
func NewEthrResolver() *EthrResolver {
	return &EthrResolver{}
}

// Resolve synthesizes the DID document for a did:ethr identifier.
// Both did:ethr:0x... and did:ethr:<network>:0x... forms are accepted.
func (r *EthrResolver) Resolve(ctx context.Context, did string) (*core.DIDDocument, error) {
	parts := strings.Split(did, ":")
	if len(parts) < 3 || parts[0] != "did" || parts[1] != "ethr" {
		return nil, fmt.Errorf("not a did:ethr identifier: %w", core.ErrIdentityUnresolvable)
	}

	addr := parts[len(parts)-1]
	if !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("invalid address %q: %w", addr, core.ErrIdentityUnresolvable)
	}
	checksummed := common.HexToAddress(addr).Hex()

	methodID := did + "#controller"
	return &core.DIDDocument{
		Context: []string{"https://www.w3.org/ns/did/v1"},
		ID:      did,
		VerificationMethod: []core.VerificationMethod{{
			ID:                  methodID,
			Type:                core.SuiteSecp256k1Recovery,
			Controller:          did,
			BlockchainAccountID: checksummed,
		}},
		Authentication: []string{methodID},
	}, nil
}

var _ ports.Resolver = (*EthrResolver)(nil)
