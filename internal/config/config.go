// Package config loads the immutable service configuration from the
// environment. The Config is constructed once in main and passed by
// reference into each component's constructor.
package config

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultListenAddr      = ":9000"
	DefaultChallengeTTL    = 5 * time.Minute
	DefaultTokenTTL        = 24 * time.Hour
	DefaultClockSkew       = 30 * time.Second
	DefaultResolverTimeout = 5 * time.Second
)

// Config holds all runtime configuration for the auth engine.
type Config struct {
	ListenAddr string

	// APIKeys is the static shared-secret credential set.
	APIKeys []string

	// DIDAuthEnabled gates the challenge-response path.
	DIDAuthEnabled bool

	ChallengeTTL    time.Duration
	TokenTTL        time.Duration
	ClockSkew       time.Duration
	ResolverTimeout time.Duration

	// ServiceDID is this service's own identity reference, used as token
	// issuer/audience and as the id of the published DID document.
	ServiceDID string

	// Endpoint is the externally reachable base URL of this service.
	Endpoint string

	// SigningKey signs access tokens and is published (public half) in the
	// service DID document.
	SigningKey *ecdsa.PrivateKey

	RedisURL string
}

// Load reads configuration from the environment. A missing signing key is
// generated, which is only suitable for development: tokens do not survive
// a restart without a persistent key.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:      envOr("AEGIS_LISTEN_ADDR", DefaultListenAddr),
		DIDAuthEnabled:  true,
		ChallengeTTL:    DefaultChallengeTTL,
		TokenTTL:        DefaultTokenTTL,
		ClockSkew:       DefaultClockSkew,
		ResolverTimeout: DefaultResolverTimeout,
		ServiceDID:      os.Getenv("AEGIS_SERVICE_DID"),
		Endpoint:        os.Getenv("AEGIS_ENDPOINT"),
		RedisURL:        os.Getenv("REDIS_URL"),
	}

	if keys := os.Getenv("AEGIS_API_KEYS"); keys != "" {
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				cfg.APIKeys = append(cfg.APIKeys, k)
			}
		}
	}

	if v := os.Getenv("AEGIS_DID_AUTH_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AEGIS_DID_AUTH_ENABLED: %w", err)
		}
		cfg.DIDAuthEnabled = enabled
	}

	var err error
	if cfg.ChallengeTTL, err = envDuration("AEGIS_CHALLENGE_TTL", cfg.ChallengeTTL); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = envDuration("AEGIS_TOKEN_TTL", cfg.TokenTTL); err != nil {
		return nil, err
	}
	if cfg.ClockSkew, err = envDuration("AEGIS_CLOCK_SKEW", cfg.ClockSkew); err != nil {
		return nil, err
	}
	if cfg.ResolverTimeout, err = envDuration("AEGIS_RESOLVER_TIMEOUT", cfg.ResolverTimeout); err != nil {
		return nil, err
	}

	if pemKey := os.Getenv("AEGIS_SIGNING_KEY"); pemKey != "" {
		cfg.SigningKey, err = ParseSigningKey([]byte(pemKey))
		if err != nil {
			return nil, fmt.Errorf("invalid AEGIS_SIGNING_KEY: %w", err)
		}
	} else {
		cfg.SigningKey, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
	}

	return cfg, nil
}

// ParseSigningKey decodes a PEM-encoded ECDSA private key.
func ParseSigningKey(data []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC private key: %w", err)
	}
	return key, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return d, nil
}
