// File: internal/session/manager.go
package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/config"
	"influencer_platform_backend/internal/platform/crypto"
	"influencer_platform_backend/internal/shared"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TTL is fixed policy for every session; there is no renewal state.
const TTL = 7 * 24 * time.Hour

const sidEntropyBytes = 32

// Manager creates, resolves and destroys server-side sessions. Resolution is
// backed by an in-process read-through cache in front of the database.
type Manager struct {
	db     *gorm.DB
	cfg    *config.Config
	cache  *gocache.Cache
	logger *zap.Logger
}

// NewManager creates a new session manager.
func NewManager(db *gorm.DB, cfg *config.Config, logger *zap.Logger) *Manager {
	return &Manager{
		db:     db,
		cfg:    cfg,
		cache:  gocache.New(5*time.Minute, 10*time.Minute),
		logger: logger.Named("SessionManager"),
	}
}

// Create persists a new session for the identity and returns its SID.
func (m *Manager) Create(ctx context.Context, ident *shared.Identity) (string, error) {
	sid, err := crypto.GenerateSecureRandomString(sidEntropyBytes)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(ident)
	if err != nil {
		return "", err
	}

	record := &Session{
		SID:       sid,
		UserID:    ident.UserID,
		Data:      string(payload),
		ExpiresAt: time.Now().Add(TTL),
		CreatedAt: time.Now(),
	}
	if err := m.db.WithContext(ctx).Create(record).Error; err != nil {
		return "", err
	}

	m.cache.Set(sid, ident, time.Until(record.ExpiresAt))
	return sid, nil
}

// Resolve returns the identity bound to the SID, or ErrUnauthorized when the
// session is unknown or expired. Expired rows are deleted lazily on contact.
func (m *Manager) Resolve(ctx context.Context, sid string) (*shared.Identity, error) {
	if cached, found := m.cache.Get(sid); found {
		if ident, ok := cached.(*shared.Identity); ok {
			return ident, nil
		}
	}

	var record Session
	err := m.db.WithContext(ctx).Where("sid = ?", sid).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrUnauthorized.WithDetails("Session not found.")
		}
		return nil, err
	}

	if time.Now().After(record.ExpiresAt) {
		if delErr := m.db.WithContext(ctx).Delete(&Session{}, "sid = ?", sid).Error; delErr != nil {
			m.logger.Warn("Failed to delete expired session", zap.Error(delErr))
		}
		return nil, common.ErrUnauthorized.WithDetails("Session has expired.")
	}

	var ident shared.Identity
	if err := json.Unmarshal([]byte(record.Data), &ident); err != nil {
		m.logger.Error("Corrupt session payload", zap.String("sid", sid), zap.Error(err))
		return nil, common.ErrUnauthorized.WithDetails("Session is invalid.")
	}

	m.cache.Set(sid, &ident, time.Until(record.ExpiresAt))
	return &ident, nil
}

// Destroy removes the session from both the store and the cache.
func (m *Manager) Destroy(ctx context.Context, sid string) error {
	m.cache.Delete(sid)
	return m.db.WithContext(ctx).Delete(&Session{}, "sid = ?", sid).Error
}

// PurgeExpired deletes all expired session rows and returns the count.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	res := m.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&Session{})
	return res.RowsAffected, res.Error
}

// CookieValue returns the transport form of the SID: the SID plus an HMAC
// signature under the session secret, so a tampered or fabricated cookie is
// rejected before it ever reaches the store.
func (m *Manager) CookieValue(sid string) string {
	return sid + "." + m.sign(sid)
}

func (m *Manager) sign(sid string) string {
	mac := hmac.New(sha256.New, []byte(m.cfg.SessionSecret))
	mac.Write([]byte(sid))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// IssueCookie attaches the signed session cookie to the response.
func (m *Manager) IssueCookie(c *gin.Context, sid string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cfg.SessionCookieName,
		Value:    m.CookieValue(sid),
		Path:     "/",
		Domain:   m.cfg.CookieDomain,
		MaxAge:   int(TTL.Seconds()),
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (m *Manager) ClearCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.cfg.CookieDomain,
		MaxAge:   -1,
		Secure:   m.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// SIDFromRequest extracts and authenticates the session cookie value. Empty
// when the cookie is absent, malformed, or carries a bad signature.
func (m *Manager) SIDFromRequest(c *gin.Context) string {
	cookie, err := c.Request.Cookie(m.cfg.SessionCookieName)
	if err != nil {
		return ""
	}
	sid, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || sid == "" {
		return ""
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(sid))) {
		return ""
	}
	return sid
}
