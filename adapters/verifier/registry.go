package verifier

import (
	"fmt"
	"sort"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/ports"
)

// Registry dispatches signature verification to the suite registered for a
// verification method's type. The registry is populated at construction
// time and read-only afterwards.
type Registry struct {
	suites map[string]ports.SignatureVerifier
}

// NewRegistry creates a registry with the default suites.
func NewRegistry() *Registry {
	return &Registry{
		suites: map[string]ports.SignatureVerifier{
			core.SuiteEd25519:           NewEd25519Verifier(),
			core.SuiteSecp256k1Recovery: NewEthereumVerifier(),
		},
	}
}

// Verify dispatches to the suite for the method's type.
func (r *Registry) Verify(method core.VerificationMethod, message, signature []byte) error {
	suite, ok := r.suites[method.Type]
	if !ok {
		return fmt.Errorf("unsupported verification method type %q: %w", method.Type, core.ErrInvalidSignature)
	}
	return suite.Verify(method, message, signature)
}

// Suites lists the registered suite names in stable order.
func (r *Registry) Suites() []string {
	names := make([]string, 0, len(r.suites))
	for name := range r.suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var _ ports.SignatureVerifier = (*Registry)(nil)
