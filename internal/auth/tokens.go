// File: internal/auth/tokens.go
package auth

import (
	"time"

	"influencer_platform_backend/internal/platform/crypto"
)

// Token expiry windows are fixed policy, not configurable per call.
const (
	VerificationTokenTTL = 24 * time.Hour
	ResetTokenTTL        = 1 * time.Hour
)

const tokenEntropyBytes = 32

// NewToken generates an opaque, URL-safe random token with at least 128 bits
// of entropy.
func NewToken() (string, error) {
	return crypto.GenerateSecureRandomString(tokenEntropyBytes)
}

// VerificationTokenExpiry returns the expiry timestamp for an email
// verification token issued now.
func VerificationTokenExpiry() time.Time {
	return time.Now().Add(VerificationTokenTTL)
}

// ResetTokenExpiry returns the expiry timestamp for a password reset token
// issued now.
func ResetTokenExpiry() time.Time {
	return time.Now().Add(ResetTokenTTL)
}

// IsTokenExpired reports whether the expiry instant has passed. A token is
// valid at the exact expiry instant and expired strictly after it.
func IsTokenExpired(expiresAt time.Time) bool {
	return time.Now().After(expiresAt)
}
