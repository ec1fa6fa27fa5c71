// File: internal/middleware/auth_test.go
package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/config"
	"influencer_platform_backend/internal/session"
	"influencer_platform_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&session.Session{}))

	cfg := &config.Config{SessionCookieName: "platform_session", SessionSecret: "test-session-secret"}
	return session.NewManager(db, cfg, zap.NewNop())
}

func protectedRouter(resolver IdentityResolver, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(resolver, zap.NewNop())}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		ident := GetIdentityFromContext(c)
		c.JSON(http.StatusOK, gin.H{"email": ident.Email})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestSessionGuardRejectsWithoutCookie(t *testing.T) {
	sessions := newTestSessions(t)
	cfg := &config.Config{AuthMode: config.AuthModeSession, SessionCookieName: "platform_session"}
	resolver := NewIdentityResolver(cfg, sessions, nil, zap.NewNop())

	r := protectedRouter(resolver)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionGuardResolvesValidSession(t *testing.T) {
	sessions := newTestSessions(t)
	cfg := &config.Config{AuthMode: config.AuthModeSession, SessionCookieName: "platform_session"}
	resolver := NewIdentityResolver(cfg, sessions, nil, zap.NewNop())

	sid, err := sessions.Create(context.Background(), &shared.Identity{
		UserID: uuid.New(), Email: "a@x.com", Role: common.RoleInfluencer,
	})
	require.NoError(t, err)

	r := protectedRouter(resolver)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "platform_session", Value: sessions.CookieValue(sid)})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
}

func TestSessionGuardRejectsBogusSID(t *testing.T) {
	sessions := newTestSessions(t)
	cfg := &config.Config{AuthMode: config.AuthModeSession, SessionCookieName: "platform_session"}
	resolver := NewIdentityResolver(cfg, sessions, nil, zap.NewNop())

	r := protectedRouter(resolver)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "platform_session", Value: "forged"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionGuardRejectsTamperedCookie(t *testing.T) {
	sessions := newTestSessions(t)
	cfg := &config.Config{AuthMode: config.AuthModeSession, SessionCookieName: "platform_session"}
	resolver := NewIdentityResolver(cfg, sessions, nil, zap.NewNop())

	sid, err := sessions.Create(context.Background(), &shared.Identity{
		UserID: uuid.New(), Email: "a@x.com", Role: common.RoleInfluencer,
	})
	require.NoError(t, err)

	r := protectedRouter(resolver)

	// Valid SID, wrong signature: the store is never consulted.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "platform_session", Value: sid + ".Zm9yZ2Vk"})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Bare SID without a signature is also refused.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "platform_session", Value: sid})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGateForbidsNonAdmins(t *testing.T) {
	sessions := newTestSessions(t)
	cfg := &config.Config{AuthMode: config.AuthModeSession, SessionCookieName: "platform_session"}
	resolver := NewIdentityResolver(cfg, sessions, nil, zap.NewNop())

	sid, err := sessions.Create(context.Background(), &shared.Identity{
		UserID: uuid.New(), Email: "a@x.com", Role: common.RoleInfluencer,
	})
	require.NoError(t, err)

	r := protectedRouter(resolver, RoleAuthMiddleware(common.RoleAdmin))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "platform_session", Value: sessions.CookieValue(sid)})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRoleGateAdmitsAdmins(t *testing.T) {
	sessions := newTestSessions(t)
	cfg := &config.Config{AuthMode: config.AuthModeSession, SessionCookieName: "platform_session"}
	resolver := NewIdentityResolver(cfg, sessions, nil, zap.NewNop())

	sid, err := sessions.Create(context.Background(), &shared.Identity{
		UserID: uuid.New(), Email: "admin@x.com", Role: common.RoleAdmin,
	})
	require.NoError(t, err)

	r := protectedRouter(resolver, RoleAuthMiddleware(common.RoleAdmin))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "platform_session", Value: sessions.CookieValue(sid)})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// fakeProvisioner materializes identities for edge-auth tests.
type fakeProvisioner struct {
	lastClaims shared.EdgeClaims
	identity   *shared.Identity
}

func (f *fakeProvisioner) ProvisionFromEdgeClaims(_ context.Context, claims shared.EdgeClaims) (*shared.Identity, error) {
	f.lastClaims = claims
	return f.identity, nil
}

func signTestAssertion(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("edge-test-secret"))
	require.NoError(t, err)
	return signed
}

func TestCloudflareResolverParsesAssertion(t *testing.T) {
	prov := &fakeProvisioner{identity: &shared.Identity{
		UserID: uuid.New(), Email: "edge@x.com", Role: common.RoleInfluencer,
	}}
	cfg := &config.Config{AuthMode: config.AuthModeCloudflare}
	resolver := NewIdentityResolver(cfg, nil, prov, zap.NewNop())

	assertion := signTestAssertion(t, jwt.MapClaims{
		"sub":   "cf-sub-1",
		"email": "edge@x.com",
		"name":  "Edge User",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	r := protectedRouter(resolver)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(CloudflareAssertionHeader, assertion)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cf-sub-1", prov.lastClaims.Subject)
	assert.Equal(t, "edge@x.com", prov.lastClaims.Email)
	assert.Equal(t, "Edge", prov.lastClaims.GivenName, "display name is split when given_name is absent")
	assert.Equal(t, "User", prov.lastClaims.FamilyName)
}

func TestCloudflareResolverRejectsMissingHeader(t *testing.T) {
	cfg := &config.Config{AuthMode: config.AuthModeCloudflare}
	resolver := NewIdentityResolver(cfg, nil, &fakeProvisioner{}, zap.NewNop())

	r := protectedRouter(resolver)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCloudflareResolverRejectsGarbage(t *testing.T) {
	cfg := &config.Config{AuthMode: config.AuthModeCloudflare}
	resolver := NewIdentityResolver(cfg, nil, &fakeProvisioner{}, zap.NewNop())

	r := protectedRouter(resolver)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(CloudflareAssertionHeader, "not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
