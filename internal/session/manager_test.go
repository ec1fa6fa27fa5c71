// File: internal/session/manager_test.go
package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/config"
	"influencer_platform_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Session{}))

	cfg := &config.Config{SessionCookieName: "platform_session", SessionSecret: "test-session-secret"}
	return NewManager(db, cfg, zap.NewNop())
}

func testIdentity() *shared.Identity {
	return &shared.Identity{
		UserID: uuid.New(),
		Email:  "a@x.com",
		Role:   common.RoleInfluencer,
	}
}

// The manager's raw queries address the primary key column as "sid"; pin the
// struct tag that maps SID there so a naming-strategy change cannot silently
// break cold-cache resolution.
func TestSIDColumnName(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	sid, err := m.Create(ctx, testIdentity())
	require.NoError(t, err)

	var count int64
	require.NoError(t, m.db.Table("sessions").Where("sid = ?", sid).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCookieValueRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestManager(t)

	sid, err := m.Create(context.Background(), testIdentity())
	require.NoError(t, err)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: "platform_session", Value: m.CookieValue(sid)})
	assert.Equal(t, sid, m.SIDFromRequest(c))

	// A bare or re-signed value is refused before the store is consulted.
	c2, _ := gin.CreateTestContext(httptest.NewRecorder())
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.AddCookie(&http.Cookie{Name: "platform_session", Value: sid})
	assert.Empty(t, m.SIDFromRequest(c2))

	c3, _ := gin.CreateTestContext(httptest.NewRecorder())
	c3.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c3.Request.AddCookie(&http.Cookie{Name: "platform_session", Value: sid + ".Zm9yZ2Vk"})
	assert.Empty(t, m.SIDFromRequest(c3))
}

func TestCreateAndResolve(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	ident := testIdentity()

	sid, err := m.Create(ctx, ident)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	resolved, err := m.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, ident.UserID, resolved.UserID)
	assert.Equal(t, ident.Email, resolved.Email)
	assert.Equal(t, ident.Role, resolved.Role)
}

func TestResolveSurvivesColdCache(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	sid, err := m.Create(ctx, testIdentity())
	require.NoError(t, err)

	// Simulate a process restart: the cache is empty, the row is not.
	m.cache.Flush()

	resolved, err := m.Resolve(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", resolved.Email)
}

func TestResolveUnknownSID(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Resolve(context.Background(), "no-such-session")
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestExpiredSessionIsMissAndLazilyDeleted(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	sid, err := m.Create(ctx, testIdentity())
	require.NoError(t, err)
	m.cache.Flush()

	require.NoError(t, m.db.Model(&Session{}).
		Where("sid = ?", sid).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	_, err = m.Resolve(ctx, sid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	var count int64
	m.db.Model(&Session{}).Where("sid = ?", sid).Count(&count)
	assert.EqualValues(t, 0, count, "expired row is deleted on contact")
}

func TestDestroy(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	sid, err := m.Create(ctx, testIdentity())
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, sid))

	_, err = m.Resolve(ctx, sid)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestPurgeExpired(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	live, err := m.Create(ctx, testIdentity())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		sid, err := m.Create(ctx, testIdentity())
		require.NoError(t, err)
		require.NoError(t, m.db.Model(&Session{}).
			Where("sid = ?", sid).
			Update("expires_at", time.Now().Add(-time.Hour)).Error)
	}

	purged, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, purged)

	m.cache.Flush()
	_, err = m.Resolve(ctx, live)
	assert.NoError(t, err, "live sessions survive the purge")
}

func TestSessionTTLIsSevenDays(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, TTL)

	m := newTestManager(t)
	sid, err := m.Create(context.Background(), testIdentity())
	require.NoError(t, err)

	var record Session
	require.NoError(t, m.db.First(&record, "sid = ?", sid).Error)
	assert.WithinDuration(t, time.Now().Add(TTL), record.ExpiresAt, 5*time.Second)
}
