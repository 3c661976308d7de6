package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/aegis/core"
	"github.com/layer-3/aegis/service"
)

// APIKeyHeader carries the shared-secret credential.
const APIKeyHeader = "X-API-Key"

const authContextKey = "authContext"

// GetAuthContext returns the AuthContext set by a policy middleware, or the
// anonymous context when none ran.
func GetAuthContext(c *gin.Context) *core.AuthContext {
	if v, ok := c.Get(authContextKey); ok {
		if authCtx, ok := v.(*core.AuthContext); ok {
			return authCtx
		}
	}
	return core.Anonymous()
}

func setAuthContext(c *gin.Context, authCtx *core.AuthContext) {
	c.Set(authContextKey, authCtx)
}

// RequireAPIKey rejects the request unless a valid shared secret is
// presented in the X-API-Key header.
func RequireAPIKey(apiKeys *service.APIKeyValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx, ok := tryAPIKey(c, apiKeys)
		if !ok {
			abortWithError(c, core.ErrInvalidAPIKey)
			return
		}
		setAuthContext(c, authCtx)
		c.Next()
	}
}

// RequireDID rejects the request unless a valid bearer token is presented.
func RequireDID(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := extractBearer(c)
		if !ok {
			abortWithError(c, core.ErrUnauthorized)
			return
		}

		authCtx, err := tryBearer(c, auth, token)
		if err != nil {
			abortWithError(c, err)
			return
		}
		setAuthContext(c, authCtx)
		c.Next()
	}
}

// RequireEither accepts a valid API key or a valid bearer token. The API
// key path is tried first since it is a local lookup; the bearer path is
// the fallback. The request is rejected only when both fail.
func RequireEither(apiKeys *service.APIKeyValidator, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authCtx, ok := tryAPIKey(c, apiKeys); ok {
			setAuthContext(c, authCtx)
			c.Next()
			return
		}

		if token, ok := extractBearer(c); ok {
			if authCtx, err := tryBearer(c, auth, token); err == nil {
				setAuthContext(c, authCtx)
				c.Next()
				return
			}
		}

		abortWithError(c, core.ErrUnauthorized)
	}
}

// OptionalAuth attempts both credential paths but never rejects: the
// downstream handler always runs, with an anonymous context when neither
// credential validates.
func OptionalAuth(apiKeys *service.APIKeyValidator, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authCtx, ok := tryAPIKey(c, apiKeys); ok {
			setAuthContext(c, authCtx)
			c.Next()
			return
		}

		if token, ok := extractBearer(c); ok {
			if authCtx, err := tryBearer(c, auth, token); err == nil {
				setAuthContext(c, authCtx)
				c.Next()
				return
			}
		}

		setAuthContext(c, core.Anonymous())
		c.Next()
	}
}

func tryAPIKey(c *gin.Context, apiKeys *service.APIKeyValidator) (*core.AuthContext, bool) {
	key := c.GetHeader(APIKeyHeader)
	if key == "" || apiKeys == nil || !apiKeys.Validate(key) {
		return nil, false
	}
	return &core.AuthContext{
		Authenticated: true,
		Method:        core.MethodAPIKey,
		Identity:      &core.Identity{Subject: "api-key:" + service.KeyPrefix(key)},
	}, true
}

func tryBearer(c *gin.Context, auth *service.AuthService, token string) (*core.AuthContext, error) {
	claims, err := auth.ValidateAccessToken(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}
	return &core.AuthContext{
		Authenticated: true,
		Method:        core.MethodDID,
		Identity: &core.Identity{
			Subject: claims.Subject,
			Claims:  map[string]string{"scope": claims.Scope, "jti": claims.ID},
		},
	}, nil
}

func extractBearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return token, token != ""
}
