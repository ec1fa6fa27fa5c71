// File: internal/middleware/auth.go
package middleware

import (
	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdentityKey is the context key for the resolved caller identity.
	IdentityKey = "identity"
)

// AuthMiddleware guards protected routes. It resolves the caller identity via
// the configured resolver and rejects the request when nothing resolves. On
// success the identity is placed in the request context and is not mutated
// again within the request.
func AuthMiddleware(resolver IdentityResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, err := resolver.Resolve(c)
		if err != nil {
			logger.Debug("Request rejected: no resolvable identity", zap.Error(err), zap.String("path", c.Request.URL.Path))
			if _, ok := common.IsAPIError(err); ok {
				common.RespondWithError(c, err)
			} else {
				common.RespondWithError(c, common.ErrUnauthorized)
			}
			return
		}

		c.Set(IdentityKey, ident)
		c.Next()
	}
}

// GetIdentityFromContext retrieves the resolved identity, nil when absent.
func GetIdentityFromContext(c *gin.Context) *shared.Identity {
	val, exists := c.Get(IdentityKey)
	if !exists {
		return nil
	}
	ident, ok := val.(*shared.Identity)
	if !ok {
		return nil
	}
	return ident
}

// RoleAuthMiddleware checks that the authenticated caller holds one of the
// required roles. Failure is always terminal for the request.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := GetIdentityFromContext(c)
		if ident == nil {
			common.RespondWithError(c, common.ErrForbidden.WithDetails("Caller identity not found in context."))
			return
		}

		for _, role := range allowedRoles {
			if ident.Role == role {
				c.Next()
				return
			}
		}
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You do not have sufficient permissions for this resource."))
	}
}
