package service

import (
	"crypto/subtle"

	"github.com/ThreeDotsLabs/watermill"
)

// APIKeyValidator holds the static shared-secret credential set loaded at
// startup. The set is immutable after construction.
type APIKeyValidator struct {
	keys   []string
	logger watermill.LoggerAdapter
}

// NewAPIKeyValidator creates a validator over the configured key set
func NewAPIKeyValidator(keys []string, logger watermill.LoggerAdapter) *APIKeyValidator {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	valid := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			valid = append(valid, k)
		}
	}
	return &APIKeyValidator{keys: valid, logger: logger}
}

// Enabled reports whether any keys are configured.
func (v *APIKeyValidator) Enabled() bool {
	return len(v.keys) > 0
}

// Validate is a membership test against the configured set. Comparison is
// constant-time per key. An empty input is always rejected.
func (v *APIKeyValidator) Validate(key string) bool {
	if key == "" {
		return false
	}

	ok := false
	for _, k := range v.keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			ok = true
		}
	}

	// Audit with a non-reversible prefix, never the full secret
	v.logger.Info("api key validation", watermill.LogFields{
		"key_prefix": KeyPrefix(key),
		"valid":      ok,
	})

	return ok
}

// KeyPrefix gives a stable, non-reversible identifier for an API key,
// usable in logs and as an authenticated subject.
func KeyPrefix(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "..."
}
