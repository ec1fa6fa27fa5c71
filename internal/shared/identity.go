// File: internal/shared/identity.go
package shared

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the caller identity resolved once per request by the auth
// middleware. It is read-only for the remainder of request processing.
type Identity struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
}

// EdgeClaims carries the identity assertion injected by a trusted reverse
// proxy (Cloudflare Access) in front of the application.
type EdgeClaims struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
	Picture    string
}

// Provisioner materializes a user record for edge-authenticated callers whose
// first contact with the application is through the proxy-injected header.
// Implemented by user.Service.
type Provisioner interface {
	ProvisionFromEdgeClaims(ctx context.Context, claims EdgeClaims) (*Identity, error)
}
