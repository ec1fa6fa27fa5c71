// File: internal/auth/tokens_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenIsOpaqueAndUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewToken()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(token), 32, "token must carry real entropy")
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestExpiryWindows(t *testing.T) {
	now := time.Now()

	v := VerificationTokenExpiry()
	assert.WithinDuration(t, now.Add(24*time.Hour), v, 2*time.Second)

	r := ResetTokenExpiry()
	assert.WithinDuration(t, now.Add(1*time.Hour), r, 2*time.Second)
}

func TestIsTokenExpiredBoundary(t *testing.T) {
	assert.False(t, IsTokenExpired(time.Now().Add(time.Minute)))
	assert.True(t, IsTokenExpired(time.Now().Add(-time.Second)))

	// Valid at the expiry instant, expired strictly after.
	future := time.Now().Add(50 * time.Millisecond)
	assert.False(t, IsTokenExpired(future))
}
