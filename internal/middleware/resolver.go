// File: internal/middleware/resolver.go
package middleware

import (
	"strings"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/config"
	"influencer_platform_backend/internal/session"
	"influencer_platform_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// CloudflareAssertionHeader carries the identity assertion injected by
// Cloudflare Access in front of the application.
const CloudflareAssertionHeader = "Cf-Access-Jwt-Assertion"

// IdentityResolver resolves the caller identity from request-scoped
// credentials. Exactly one implementation is selected at configuration time;
// the strategies are never layered.
type IdentityResolver interface {
	Resolve(c *gin.Context) (*shared.Identity, error)
}

// NewIdentityResolver selects the concrete resolver for the configured auth mode.
func NewIdentityResolver(cfg *config.Config, sessions *session.Manager, provisioner shared.Provisioner, logger *zap.Logger) IdentityResolver {
	if cfg.AuthMode == config.AuthModeCloudflare {
		return &cloudflareResolver{provisioner: provisioner, logger: logger.Named("CloudflareResolver")}
	}
	return &sessionResolver{sessions: sessions}
}

// sessionResolver resolves identity from the session cookie.
type sessionResolver struct {
	sessions *session.Manager
}

func (r *sessionResolver) Resolve(c *gin.Context) (*shared.Identity, error) {
	sid := r.sessions.SIDFromRequest(c)
	if sid == "" {
		return nil, common.ErrUnauthorized.WithDetails("No session cookie present.")
	}
	return r.sessions.Resolve(c.Request.Context(), sid)
}

// cloudflareResolver trusts the identity assertion injected by the edge proxy.
// Signature verification happens at the proxy; the application sits behind it
// and only parses the claims. Unknown callers are provisioned on first contact.
type cloudflareResolver struct {
	provisioner shared.Provisioner
	logger      *zap.Logger
}

func (r *cloudflareResolver) Resolve(c *gin.Context) (*shared.Identity, error) {
	assertion := c.GetHeader(CloudflareAssertionHeader)
	if assertion == "" {
		return nil, common.ErrUnauthorized.WithDetails("Missing edge identity assertion.")
	}

	claims, err := parseEdgeClaims(assertion)
	if err != nil {
		r.logger.Warn("Failed to parse edge identity assertion", zap.Error(err))
		return nil, common.ErrUnauthorized.WithDetails("Invalid edge identity assertion.")
	}

	ident, err := r.provisioner.ProvisionFromEdgeClaims(c.Request.Context(), claims)
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		r.logger.Error("Failed to resolve edge-authenticated user", zap.Error(err))
		return nil, common.ErrUnauthorized.WithDetails("Could not resolve edge identity.")
	}
	return ident, nil
}

func parseEdgeClaims(assertion string) (shared.EdgeClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(assertion, claims); err != nil {
		return shared.EdgeClaims{}, err
	}

	str := func(key string) string {
		if v, ok := claims[key].(string); ok {
			return v
		}
		return ""
	}

	edge := shared.EdgeClaims{
		Subject:    str("sub"),
		Email:      str("email"),
		GivenName:  str("given_name"),
		FamilyName: str("family_name"),
		Picture:    str("picture"),
	}

	// Some identity providers only supply a display name.
	if edge.GivenName == "" {
		if name := str("name"); name != "" {
			parts := strings.Fields(name)
			edge.GivenName = parts[0]
			if len(parts) > 1 {
				edge.FamilyName = strings.Join(parts[1:], " ")
			}
		}
	}
	return edge, nil
}
