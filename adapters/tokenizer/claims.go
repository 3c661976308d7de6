package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with the granted scope
type AccessClaims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}
