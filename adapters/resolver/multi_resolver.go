package resolver

import (
	"context"
	"fmt"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/ports"
)

// MultiResolver dispatches resolution to a method-specific resolver based
// on the DID method segment.
type MultiResolver struct {
	resolvers map[string]ports.Resolver
}

// NewMultiResolver builds a MultiResolver from a method to resolver map.
func NewMultiResolver(resolvers map[string]ports.Resolver) *MultiResolver {
	return &MultiResolver{resolvers: resolvers}
}

// Methods lists the registered DID methods.
func (m *MultiResolver) Methods() []string {
	methods := make([]string, 0, len(m.resolvers))
	for method := range m.resolvers {
		methods = append(methods, method)
	}
	return methods
}

// Resolve dispatches to the resolver registered for the DID's method.
func (m *MultiResolver) Resolve(ctx context.Context, did string) (*core.DIDDocument, error) {
	method := core.DIDMethod(did)
	r, ok := m.resolvers[method]
	if !ok {
		return nil, fmt.Errorf("unsupported DID method %q: %w", method, core.ErrIdentityUnresolvable)
	}
	return r.Resolve(ctx, did)
}

var _ ports.Resolver = (*MultiResolver)(nil)
