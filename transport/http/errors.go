package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/aegis/core"
)

// errorBody is the structured error envelope returned on every rejection.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// abortWithError maps a domain error to an HTTP status and the structured
// error body. Messages are fixed per error so a rejection never reveals how
// close a credential came to being valid.
func abortWithError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	c.AbortWithStatusJSON(status, errorBody{Error: errorDetail{
		Code:    core.ErrorCode(err),
		Message: message,
	}})
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidDID):
		return http.StatusBadRequest, "invalid DID"
	case errors.Is(err, core.ErrInvalidAPIKey):
		return http.StatusUnauthorized, "invalid API key"
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, core.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, core.ErrTokenRevoked):
		return http.StatusUnauthorized, "token revoked"
	case errors.Is(err, core.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, core.ErrChallengeNotFound):
		return http.StatusUnauthorized, "challenge not found"
	case errors.Is(err, core.ErrChallengeExpired):
		return http.StatusUnauthorized, "challenge expired"
	case errors.Is(err, core.ErrChallengeConsumed):
		return http.StatusUnauthorized, "challenge already used"
	case errors.Is(err, core.ErrInvalidSignature):
		return http.StatusUnauthorized, "signature verification failed"
	case errors.Is(err, core.ErrIdentityUnresolvable):
		return http.StatusInternalServerError, "identity resolution failed"
	case errors.Is(err, core.ErrChallengeCreation):
		return http.StatusInternalServerError, "failed to create challenge"
	case errors.Is(err, core.ErrRevocation):
		return http.StatusInternalServerError, "revocation failed"
	case errors.Is(err, core.ErrDIDDisabled):
		return http.StatusServiceUnavailable, "DID authentication is disabled"
	case errors.Is(err, core.ErrDIDGeneration):
		return http.StatusInternalServerError, "failed to generate DID document"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func badRequest(c *gin.Context, details string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    "validation/invalid-input",
		Message: "invalid request body",
		Details: details,
	}})
}
