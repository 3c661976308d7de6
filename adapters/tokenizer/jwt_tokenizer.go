package tokenizer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/ports"
)

// JWTTokenizer implements the Tokenizer interface using ES256-signed JWTs.
// The service DID is used as both issuer and audience.
type JWTTokenizer struct {
	signKey    *ecdsa.PrivateKey
	serviceDID string
	tokenTTL   time.Duration
	leeway     time.Duration
}

// NewJWTTokenizer creates a new JWT tokenizer
func NewJWTTokenizer(signKey *ecdsa.PrivateKey, serviceDID string, tokenTTL, leeway time.Duration) ports.Tokenizer {
	return &JWTTokenizer{
		signKey:    signKey,
		serviceDID: serviceDID,
		tokenTTL:   tokenTTL,
		leeway:     leeway,
	}
}

// Issue builds and signs an access token for the identity
func (j *JWTTokenizer) Issue(identity *core.Identity, scope string) (string, *core.TokenClaims, error) {
	now := time.Now()
	expiresAt := now.Add(j.tokenTTL)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    j.serviceDID,
			Audience:  jwt.ClaimStrings{j.serviceDID},
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Scope: scope,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signedToken, err := token.SignedString(j.signKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return signedToken, claimsToCore(&claims), nil
}

// Verify checks the signature and registered claims, honoring the
// configured clock-skew leeway, and returns the decoded claims.
func (j *JWTTokenizer) Verify(tokenStr string) (*core.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, j.keyFunc,
		jwt.WithLeeway(j.leeway),
		jwt.WithIssuer(j.serviceDID),
		jwt.WithAudience(j.serviceDID),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, core.ErrTokenExpired
		}
		return nil, fmt.Errorf("failed to parse token: %w", core.ErrInvalidToken)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, core.ErrInvalidToken
	}

	return claimsToCore(claims), nil
}

// Decode verifies the signature but skips claim validation, so expired
// tokens can still be parsed for revocation.
func (j *JWTTokenizer) Decode(tokenStr string) (*core.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AccessClaims{}, j.keyFunc,
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", core.ErrInvalidToken)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok {
		return nil, core.ErrInvalidToken
	}

	return claimsToCore(claims), nil
}

// keyFunc validates the signing method and returns the verification key
func (j *JWTTokenizer) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return &j.signKey.PublicKey, nil
}

func claimsToCore(claims *AccessClaims) *core.TokenClaims {
	out := &core.TokenClaims{
		ID:      claims.ID,
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
		Scope:   claims.Scope,
	}
	if len(claims.Audience) > 0 {
		out.Audience = claims.Audience[0]
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}
