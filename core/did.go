package core

import (
	"regexp"
	"strings"
)

// DIDDocument models the JSON DID representation served from the identity
// endpoints and returned by resolvers.
type DIDDocument struct {
	Context            []string             `json:"@context"`
	ID                 string               `json:"id"`
	VerificationMethod []VerificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication,omitempty"`
	AssertionMethod    []string             `json:"assertionMethod,omitempty"`
	Service            []DIDService         `json:"service,omitempty"`
}

// VerificationMethod is a public key attached to a DID document.
type VerificationMethod struct {
	ID                  string `json:"id"`
	Type                string `json:"type"`
	Controller          string `json:"controller"`
	PublicKeyHex        string `json:"publicKeyHex,omitempty"`
	BlockchainAccountID string `json:"blockchainAccountId,omitempty"`
}

// DIDService is a service endpoint embedded in a DID document.
type DIDService struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Verification method types accepted by the signature suite registry.
const (
	SuiteEd25519           = "Ed25519VerificationKey2020"
	SuiteSecp256k1Recovery = "EcdsaSecp256k1RecoveryMethod2020"
)

var didPattern = regexp.MustCompile(`^did:[a-z0-9]+:.+$`)

// ValidDID does a basic shape check on a DID string.
func ValidDID(did string) bool {
	return didPattern.MatchString(did)
}

// DIDMethod extracts the method from a DID, e.g. "web" from "did:web:x".
func DIDMethod(did string) string {
	parts := strings.SplitN(did, ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}
