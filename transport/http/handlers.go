package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/service"
)

// Features describes the capabilities advertised by /auth/status and gates
// the DID authentication path.
type Features struct {
	DIDAuthEnabled     bool
	ChallengeTTL       time.Duration
	TokenTTL           time.Duration
	VerificationSuites []string
}

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	auth     *service.AuthService
	identity *service.IdentityService
	apiKeys  *service.APIKeyValidator
	features Features
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(auth *service.AuthService, identity *service.IdentityService, apiKeys *service.APIKeyValidator, features Features) *AuthHandlers {
	return &AuthHandlers{
		auth:     auth,
		identity: identity,
		apiKeys:  apiKeys,
		features: features,
	}
}

// Challenge handles POST /auth/challenge
func (h *AuthHandlers) Challenge(c *gin.Context) {
	if !h.features.DIDAuthEnabled {
		abortWithError(c, core.ErrDIDDisabled)
		return
	}

	var req struct {
		DID string `json:"did" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "did is required")
		return
	}

	challenge, err := h.auth.CreateChallenge(c.Request.Context(), req.DID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"challenge": gin.H{
			"id":        challenge.ID,
			"challenge": challenge.Nonce,
			"clientDID": challenge.ClientDID,
			"createdAt": challenge.IssuedAt.UTC().Format(time.RFC3339),
			"expiresAt": challenge.ExpiresAt.UTC().Format(time.RFC3339),
		},
		"expiresIn": int(time.Until(challenge.ExpiresAt).Seconds()),
	})
}

// ChallengeVerify handles POST /auth/challenge/verify
func (h *AuthHandlers) ChallengeVerify(c *gin.Context) {
	if !h.features.DIDAuthEnabled {
		abortWithError(c, core.ErrDIDDisabled)
		return
	}

	var req struct {
		ChallengeID string `json:"challengeId" binding:"required"`
		Response    string `json:"response" binding:"required"`
		Scope       string `json:"scope"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "challengeId and response are required")
		return
	}

	token, claims, identity, err := h.auth.VerifyChallenge(c.Request.Context(), req.ChallengeID, req.Response, req.Scope)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"tokenType":   "Bearer",
		"expiresIn":   int(time.Until(claims.ExpiresAt).Seconds()),
		"user": gin.H{
			"did":    identity.Subject,
			"claims": identity.Claims,
			"scope":  claims.Scope,
		},
	})
}

// RevokeToken handles POST /auth/token/revoke. The token to revoke is the
// bearer token on the request itself.
func (h *AuthHandlers) RevokeToken(c *gin.Context) {
	token, ok := extractBearer(c)
	if !ok {
		abortWithError(c, core.ErrUnauthorized)
		return
	}

	if _, err := h.auth.RevokeToken(c.Request.Context(), token); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token revoked"})
}

// User handles GET /auth/user. Mounted behind OptionalAuth, so it reports
// whatever credential the caller presented without mandating one.
func (h *AuthHandlers) User(c *gin.Context) {
	authCtx := GetAuthContext(c)

	resp := gin.H{
		"authenticated": authCtx.Authenticated,
		"authType":      string(authCtx.Method),
	}
	if authCtx.Identity != nil {
		resp["user"] = gin.H{
			"did":    authCtx.Identity.Subject,
			"claims": authCtx.Identity.Claims,
		}
	} else {
		resp["user"] = nil
	}

	c.JSON(http.StatusOK, resp)
}

// DIDDocument handles GET /auth/did and GET /.well-known/did.json
func (h *AuthHandlers) DIDDocument(c *gin.Context) {
	doc, err := h.identity.Describe()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Status handles GET /auth/status
func (h *AuthHandlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.identity.DID(),
		"didAuth": gin.H{
			"enabled":            h.features.DIDAuthEnabled,
			"challengeTTL":       int(h.features.ChallengeTTL.Seconds()),
			"tokenTTL":           int(h.features.TokenTTL.Seconds()),
			"verificationSuites": h.features.VerificationSuites,
		},
		"apiKeyAuth": gin.H{
			"enabled": h.apiKeys.Enabled(),
		},
	})
}

// Authorize handles GET /api/authorize: reaching it means a policy already
// admitted the request, so it just echoes the authentication outcome.
func (h *AuthHandlers) Authorize(c *gin.Context) {
	authCtx := GetAuthContext(c)
	c.JSON(http.StatusOK, gin.H{
		"authorized": true,
		"authType":   string(authCtx.Method),
	})
}
