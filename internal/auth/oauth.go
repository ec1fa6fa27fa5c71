// File: internal/auth/oauth.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/config"
	"influencer_platform_backend/internal/platform/crypto"
	"influencer_platform_backend/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookieName = "oauth_state"

// googleUserInfoURL is a variable so tests can point it at a local server.
var googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// OAuthService drives the Google OAuth authorization-code flow.
type OAuthService struct {
	cfg    *config.Config
	svc    *Service
	logger *zap.Logger
}

// NewOAuthService creates a new Google OAuth service.
func NewOAuthService(cfg *config.Config, svc *Service, logger *zap.Logger) *OAuthService {
	return &OAuthService{
		cfg:    cfg,
		svc:    svc,
		logger: logger.Named("OAuthService"),
	}
}

func googleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}

// setStateCookie sets the short-lived CSRF state cookie for the OAuth round trip.
func setStateCookie(c *gin.Context, cfg *config.Config, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    value,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   10 * 60,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeStateCookie retrieves and deletes the OAuth state cookie.
func takeStateCookie(c *gin.Context, cfg *config.Config) (string, error) {
	cookie, err := c.Request.Cookie(oauthStateCookieName)
	if err != nil {
		return "", fmt.Errorf("%s cookie not found: %w", oauthStateCookieName, err)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   -1,
		Secure:   cfg.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return cookie.Value, nil
}

// GetGoogleLoginURL generates the Google consent URL and plants the state cookie.
func (s *OAuthService) GetGoogleLoginURL(c *gin.Context) (string, error) {
	state, err := crypto.GenerateSecureRandomString(32)
	if err != nil {
		s.logger.Error("Failed to generate OAuth state", zap.Error(err))
		return "", common.ErrInternalServer.WithDetails("Could not initiate Google login.")
	}
	setStateCookie(c, s.cfg, state)
	googleCfg := googleOAuthConfig(s.cfg)
	return googleCfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// HandleGoogleCallback validates the state, exchanges the code, fetches the
// Google profile and resolves it to a user account.
func (s *OAuthService) HandleGoogleCallback(c *gin.Context, code, state string) (*user.User, error) {
	storedState, err := takeStateCookie(c, s.cfg)
	if err != nil {
		s.logger.Error("Failed to get stored OAuth state", zap.Error(err))
		return nil, common.ErrBadRequest.WithDetails("Invalid session or state mismatch.")
	}
	if state == "" || state != storedState {
		s.logger.Error("Google OAuth state mismatch",
			zap.String("received_state", state), zap.String("stored_state", storedState))
		return nil, common.ErrBadRequest.WithDetails("OAuth state mismatch. Possible CSRF attack.")
	}

	googleCfg := googleOAuthConfig(s.cfg)
	ctx := context.WithValue(c.Request.Context(), oauth2.HTTPClient, http.DefaultClient)

	token, err := googleCfg.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Failed to exchange Google auth code", zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails("Could not exchange Google auth code.")
	}
	if !token.Valid() {
		return nil, common.ErrServiceUnavailable.WithDetails("Received invalid token from Google.")
	}

	client := googleCfg.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		s.logger.Error("Failed to fetch user info from Google", zap.Error(err))
		return nil, common.ErrServiceUnavailable.WithDetails("Could not fetch user info from Google.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("Google user info request failed",
			zap.Int("status", resp.StatusCode), zap.String("body", string(body)))
		return nil, common.ErrServiceUnavailable.WithDetails(
			fmt.Sprintf("Google returned status %d for user info.", resp.StatusCode))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		s.logger.Error("Failed to decode Google user info", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not process Google user information.")
	}
	profile.Email = strings.ToLower(profile.Email)

	usr, err := s.svc.HandleGoogleSignIn(c.Request.Context(), profile)
	if err != nil {
		s.logger.Error("Failed to resolve user from Google profile", zap.Error(err))
		if _, ok := common.IsAPIError(err); ok {
			return nil, err
		}
		return nil, common.ErrInternalServer.WithDetails("Failed to process user account after Google login.")
	}

	s.logger.Info("Google OAuth login successful", zap.String("userID", usr.ID.String()))
	return usr, nil
}
