package ports

import (
	"context"

	"github.com/layer-3/aegis/core"
)

// Resolver fetches the DID document for a claimed identity. Resolution may
// be network-bound; implementations must honor context cancellation and
// bound their own timeouts.
type Resolver interface {
	Resolve(ctx context.Context, did string) (*core.DIDDocument, error)
}
