// Package resolver provides DID document resolution for the supported DID
// methods. Resolution of did:web is network-bound and therefore bounded by
// a timeout; did:ethr documents are synthesized locally from the address
// embedded in the identifier.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/ports"
)

// WebResolver resolves did:web identifiers by fetching the DID document
// over HTTPS, per the did:web method specification.
type WebResolver struct {
	client  *http.Client
	timeout time.Duration
	scheme  string
}

// NewWebResolver creates a new did:web resolver with a bounded per-request
// timeout so a hung document host cannot pin request-handling capacity.
func NewWebResolver(timeout time.Duration) *WebResolver {
	return &WebResolver{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
		scheme:  "https",
	}
}

// Resolve fetches and parses the DID document for a did:web identifier.
func (r *WebResolver) Resolve(ctx context.Context, did string) (*core.DIDDocument, error) {
	url, err := didWebURL(r.scheme, did)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build resolution request: %w", core.ErrIdentityUnresolvable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("document fetch failed: %w", core.ErrIdentityUnresolvable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document host returned %d: %w", resp.StatusCode, core.ErrIdentityUnresolvable)
	}

	var doc core.DIDDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid DID document: %w", core.ErrIdentityUnresolvable)
	}

	if doc.ID != did {
		return nil, fmt.Errorf("document id %q does not match %q: %w", doc.ID, did, core.ErrIdentityUnresolvable)
	}

	return &doc, nil
}

// didWebURL maps did:web:example.com:user:alice to
// https://example.com/user/alice/did.json, or the .well-known location when
// no path segments are present. %3A decodes to a port separator.
func didWebURL(scheme, did string) (string, error) {
	const prefix = "did:web:"
	if !strings.HasPrefix(did, prefix) {
		return "", fmt.Errorf("not a did:web identifier: %w", core.ErrIdentityUnresolvable)
	}

	rest := strings.TrimPrefix(did, prefix)
	if rest == "" {
		return "", fmt.Errorf("empty did:web identifier: %w", core.ErrIdentityUnresolvable)
	}

	parts := strings.Split(rest, ":")
	host := strings.ReplaceAll(parts[0], "%3A", ":")

	if len(parts) == 1 {
		return scheme + "://" + host + "/.well-known/did.json", nil
	}
	return scheme + "://" + host + "/" + strings.Join(parts[1:], "/") + "/did.json", nil
}

var _ ports.Resolver = (*WebResolver)(nil)
