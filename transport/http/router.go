package http

import (
	"github.com/gin-gonic/gin"

	"github.com/layer-3/aegis/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, identityService *service.IdentityService, apiKeys *service.APIKeyValidator, features Features) *gin.Engine {
	router := gin.Default()

	handlers := NewAuthHandlers(authService, identityService, apiKeys, features)

	auth := router.Group("/auth")
	{
		auth.POST("/challenge", handlers.Challenge)
		auth.POST("/challenge/verify", handlers.ChallengeVerify)
		auth.POST("/token/revoke", handlers.RevokeToken)
		auth.GET("/user", OptionalAuth(apiKeys, authService), handlers.User)
		auth.GET("/did", handlers.DIDDocument)
		auth.GET("/status", handlers.Status)
	}

	router.GET("/.well-known/did.json", handlers.DIDDocument)

	// Protected probe used by collaborating services to pre-flight a
	// credential before performing a write
	api := router.Group("/api")
	{
		api.GET("/authorize", RequireEither(apiKeys, authService), handlers.Authorize)
	}

	return router
}
