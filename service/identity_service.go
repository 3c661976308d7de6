package service

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"fmt"

	"github.com/layer-3/aegis/core"
)

// IdentityService publishes this service's own DID document. The document
// is a pure projection of static configuration and is rebuilt per call.
type IdentityService struct {
	serviceDID string
	endpoint   string
	publicKey  *ecdsa.PublicKey
}

// NewIdentityService creates a new service identity publisher
func NewIdentityService(serviceDID, endpoint string, publicKey *ecdsa.PublicKey) *IdentityService {
	return &IdentityService{
		serviceDID: serviceDID,
		endpoint:   endpoint,
		publicKey:  publicKey,
	}
}

// DID returns the configured service DID.
func (s *IdentityService) DID() string {
	return s.serviceDID
}

// Describe builds the service DID document from configuration.
func (s *IdentityService) Describe() (*core.DIDDocument, error) {
	if s.serviceDID == "" || s.publicKey == nil {
		return nil, fmt.Errorf("service identity is not configured: %w", core.ErrDIDGeneration)
	}

	keyID := s.serviceDID + "#key-1"
	doc := &core.DIDDocument{
		Context: []string{"https://www.w3.org/ns/did/v1"},
		ID:      s.serviceDID,
		VerificationMethod: []core.VerificationMethod{{
			ID:           keyID,
			Type:         "EcdsaSecp256r1VerificationKey2019",
			Controller:   s.serviceDID,
			PublicKeyHex: hex.EncodeToString(elliptic.MarshalCompressed(s.publicKey.Curve, s.publicKey.X, s.publicKey.Y)),
		}},
		Authentication:  []string{keyID},
		AssertionMethod: []string{keyID},
	}

	if s.endpoint != "" {
		doc.Service = []core.DIDService{{
			ID:              s.serviceDID + "#auth",
			Type:            "AuthenticationService",
			ServiceEndpoint: s.endpoint + "/auth",
		}}
	}

	return doc, nil
}
