package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"AEGIS_LISTEN_ADDR", "AEGIS_API_KEYS", "AEGIS_DID_AUTH_ENABLED",
		"AEGIS_CHALLENGE_TTL", "AEGIS_TOKEN_TTL", "AEGIS_CLOCK_SKEW",
		"AEGIS_RESOLVER_TIMEOUT", "AEGIS_SERVICE_DID", "AEGIS_ENDPOINT",
		"AEGIS_SIGNING_KEY", "REDIS_URL",
	} {
		t.Setenv(name, "")
	}
}

func pemSigningKey(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Empty(t, cfg.APIKeys)
	assert.True(t, cfg.DIDAuthEnabled)
	assert.Equal(t, DefaultChallengeTTL, cfg.ChallengeTTL)
	assert.Equal(t, DefaultTokenTTL, cfg.TokenTTL)
	assert.Equal(t, DefaultClockSkew, cfg.ClockSkew)
	assert.Equal(t, DefaultResolverTimeout, cfg.ResolverTimeout)
	assert.NotNil(t, cfg.SigningKey, "a development key is generated when none is configured")
}

func TestLoad_APIKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("AEGIS_API_KEYS", " k1, k2 ,,k3 ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2", "k3"}, cfg.APIKeys)
}

func TestLoad_Durations(t *testing.T) {
	clearEnv(t)
	t.Setenv("AEGIS_CHALLENGE_TTL", "90s")
	t.Setenv("AEGIS_TOKEN_TTL", "2h")
	t.Setenv("AEGIS_CLOCK_SKEW", "1m")
	t.Setenv("AEGIS_RESOLVER_TIMEOUT", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.ChallengeTTL)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Minute, cfg.ClockSkew)
	assert.Equal(t, 250*time.Millisecond, cfg.ResolverTimeout)
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearEnv(t)

	t.Run("unparseable", func(t *testing.T) {
		t.Setenv("AEGIS_TOKEN_TTL", "soon")
		_, err := Load()
		assert.ErrorContains(t, err, "AEGIS_TOKEN_TTL")
	})

	t.Run("non-positive", func(t *testing.T) {
		t.Setenv("AEGIS_TOKEN_TTL", "-1h")
		_, err := Load()
		assert.ErrorContains(t, err, "AEGIS_TOKEN_TTL")
	})
}

func TestLoad_DIDAuthToggle(t *testing.T) {
	clearEnv(t)

	t.Setenv("AEGIS_DID_AUTH_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.DIDAuthEnabled)

	t.Setenv("AEGIS_DID_AUTH_ENABLED", "maybe")
	_, err = Load()
	assert.ErrorContains(t, err, "AEGIS_DID_AUTH_ENABLED")
}

func TestLoad_SigningKey(t *testing.T) {
	clearEnv(t)
	pemKey := pemSigningKey(t)
	t.Setenv("AEGIS_SIGNING_KEY", pemKey)

	cfg, err := Load()
	require.NoError(t, err)

	parsed, err := ParseSigningKey([]byte(pemKey))
	require.NoError(t, err)
	assert.True(t, cfg.SigningKey.Equal(parsed))
}

func TestLoad_InvalidSigningKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("AEGIS_SIGNING_KEY", "not a pem block")

	_, err := Load()
	assert.ErrorContains(t, err, "AEGIS_SIGNING_KEY")
}

func TestParseSigningKey(t *testing.T) {
	key, err := ParseSigningKey([]byte(pemSigningKey(t)))
	require.NoError(t, err)
	assert.NotNil(t, key)

	_, err = ParseSigningKey([]byte("garbage"))
	assert.Error(t, err)

	// Right PEM armor, wrong key type
	wrong := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte{0x01}})
	_, err = ParseSigningKey(wrong)
	assert.Error(t, err)
}

func TestLoad_Identity(t *testing.T) {
	clearEnv(t)
	t.Setenv("AEGIS_SERVICE_DID", "did:web:registry.example.com")
	t.Setenv("AEGIS_ENDPOINT", "https://registry.example.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "did:web:registry.example.com", cfg.ServiceDID)
	assert.Equal(t, "https://registry.example.com", cfg.Endpoint)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}
