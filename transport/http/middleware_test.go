package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAPIKey(t *testing.T) {
	f := newFixture(t, true, []string{"k1"})
	// /api/authorize runs the either-of policy; for the strict API key
	// policy the bearer path must not be an escape hatch, so probe it on a
	// dedicated route
	router := gin.New()
	router.GET("/probe", RequireAPIKey(f.apiKeys), func(c *gin.Context) {
		authCtx := GetAuthContext(c)
		c.JSON(http.StatusOK, gin.H{"authType": string(authCtx.Method)})
	})
	f.router = router

	w, resp := f.do(t, http.MethodGet, "/probe", nil, map[string]string{APIKeyHeader: "k1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "api-key", resp["authType"])

	w, resp = f.do(t, http.MethodGet, "/probe", nil, map[string]string{APIKeyHeader: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth/invalid-api-key", errorCode(t, resp))

	w, resp = f.do(t, http.MethodGet, "/probe", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth/invalid-api-key", errorCode(t, resp))
}

func TestRequireEither(t *testing.T) {
	f := newFixture(t, true, []string{"k1"})

	t.Run("api key", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/api/authorize", nil, map[string]string{APIKeyHeader: "k1"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, resp["authorized"])
		assert.Equal(t, "api-key", resp["authType"])
	})

	t.Run("bearer", func(t *testing.T) {
		token := f.login(t)
		w, resp := f.do(t, http.MethodGet, "/api/authorize", nil, map[string]string{"Authorization": "Bearer " + token})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "did", resp["authType"])
	})

	t.Run("api key wins when both are valid", func(t *testing.T) {
		token := f.login(t)
		w, resp := f.do(t, http.MethodGet, "/api/authorize", nil, map[string]string{
			APIKeyHeader:    "k1",
			"Authorization": "Bearer " + token,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "api-key", resp["authType"])
	})

	t.Run("invalid key falls through to bearer", func(t *testing.T) {
		token := f.login(t)
		w, resp := f.do(t, http.MethodGet, "/api/authorize", nil, map[string]string{
			APIKeyHeader:    "wrong",
			"Authorization": "Bearer " + token,
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "did", resp["authType"])
	})

	t.Run("rejects when both fail", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/api/authorize", nil, map[string]string{
			APIKeyHeader:    "wrong",
			"Authorization": "Bearer garbage",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "auth/unauthorized", errorCode(t, resp))
	})

	t.Run("rejects anonymous", func(t *testing.T) {
		w, resp := f.do(t, http.MethodGet, "/api/authorize", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "auth/unauthorized", errorCode(t, resp))
	})
}

func TestRequireDID(t *testing.T) {
	f := newFixture(t, true, nil)
	token := f.login(t)

	router := gin.New()
	router.GET("/probe", RequireDID(f.authService), func(c *gin.Context) {
		authCtx := GetAuthContext(c)
		c.JSON(http.StatusOK, gin.H{"subject": authCtx.Identity.Subject})
	})
	f.router = router

	w, resp := f.do(t, http.MethodGet, "/probe", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, clientDID, resp["subject"])

	w, resp = f.do(t, http.MethodGet, "/probe", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth/unauthorized", errorCode(t, resp))

	w, resp = f.do(t, http.MethodGet, "/probe", nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth/invalid-token", errorCode(t, resp))

	// An API key is not a substitute for a bearer token here
	w, resp = f.do(t, http.MethodGet, "/probe", nil, map[string]string{APIKeyHeader: "k1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "auth/unauthorized", errorCode(t, resp))
}

func TestExtractBearer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"bearer abc", "", false},
		{"Basic abc", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			c.Request.Header.Set("Authorization", tt.header)
		}
		token, ok := extractBearer(c)
		assert.Equal(t, tt.ok, ok, "header=%q", tt.header)
		assert.Equal(t, tt.token, token, "header=%q", tt.header)
	}
}

func TestGetAuthContext_Default(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	authCtx := GetAuthContext(c)
	require.NotNil(t, authCtx)
	assert.False(t, authCtx.Authenticated)
	assert.Equal(t, "none", string(authCtx.Method))
}
