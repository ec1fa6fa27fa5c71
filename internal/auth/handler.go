// File: internal/auth/handler.go
package auth

import (
	"errors"
	"net/http"
	"net/url"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc      *Service
	oauth    *OAuthService
	sessions *session.Manager
	logger   *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(svc *Service, oauth *OAuthService, sessions *session.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		svc:      svc,
		oauth:    oauth,
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/logout", h.logout)
		authGroup.POST("/resend-verification", h.resendVerification)
		authGroup.POST("/forgot-password", h.forgotPassword)
		authGroup.POST("/reset-password", h.resetPassword)
		authGroup.GET("/google", h.googleLogin)
		authGroup.GET("/google/callback", h.googleCallback)
	}
	// Verification links land on the API host directly from the email client,
	// so this endpoint redirects rather than returning JSON.
	router.GET("/verify-email", h.verifyEmail)
}

func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		} else {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		}
		return false
	}
	return true
}

func (h *Handler) register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	usr, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	common.RespondCreated(c, "Registration successful. Please check your email to verify your account.", usr.ToResponse())
}

// login establishes a server-side session on success and sets the session cookie.
func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	usr, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}

	sid, err := h.sessions.Create(c.Request.Context(), usr.Identity())
	if err != nil {
		h.logger.Error("Failed to create session after login", zap.Error(err), zap.String("userID", usr.ID.String()))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("Could not establish a session."))
		return
	}
	h.sessions.IssueCookie(c, sid)

	common.RespondOK(c, "Login successful.", usr.ToResponse())
}

func (h *Handler) logout(c *gin.Context) {
	if sid := h.sessions.SIDFromRequest(c); sid != "" {
		if err := h.sessions.Destroy(c.Request.Context(), sid); err != nil {
			h.logger.Warn("Failed to destroy session on logout", zap.Error(err))
		}
	}
	h.sessions.ClearCookie(c)
	common.RespondOK(c, "Logged out.", nil)
}

// verifyEmail is hit from the link in the verification email, so it answers
// with redirects instead of JSON.
func (h *Handler) verifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, "/?error=missing_token")
		return
	}

	_, err := h.svc.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		reason := "invalid_token"
		if errors.Is(err, common.ErrTokenExpired) {
			reason = "token_expired"
		}
		h.logger.Warn("Email verification failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/?error="+url.QueryEscape(reason))
		return
	}

	c.Redirect(http.StatusFound, "/dashboard?verified=true")
}

func (h *Handler) resendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.ResendVerification(c.Request.Context(), req.Email); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Verification email sent. Please check your inbox.", nil)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Password reset email sent. Please check your inbox.", nil)
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if _, err := h.svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Password has been reset. You can now sign in with your new password.", nil)
}

func (h *Handler) googleLogin(c *gin.Context) {
	loginURL, err := h.oauth.GetGoogleLoginURL(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, loginURL)
}

// googleCallback completes the OAuth dance, creates a session and lands the
// browser on the dashboard.
func (h *Handler) googleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" {
		c.Redirect(http.StatusFound, "/?error=oauth_failed")
		return
	}

	usr, err := h.oauth.HandleGoogleCallback(c, code, state)
	if err != nil {
		h.logger.Error("Google callback failed", zap.Error(err))
		c.Redirect(http.StatusFound, "/?error=oauth_failed")
		return
	}

	sid, err := h.sessions.Create(c.Request.Context(), usr.Identity())
	if err != nil {
		h.logger.Error("Failed to create session after Google login", zap.Error(err), zap.String("userID", usr.ID.String()))
		c.Redirect(http.StatusFound, "/?error=session_failed")
		return
	}
	h.sessions.IssueCookie(c, sid)

	c.Redirect(http.StatusFound, "/dashboard")
}
