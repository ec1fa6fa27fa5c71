// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/invite"
	"influencer_platform_backend/internal/mailer"
	"influencer_platform_backend/internal/user"

	"go.uber.org/zap"
)

// Service orchestrates registration, login, email verification, password
// reset and Google sign-in against the user directory and the mail sender.
type Service struct {
	users   user.Repository
	invites invite.Repository
	mail    mailer.Sender
	logger  *zap.Logger
}

// NewService creates a new auth service.
func NewService(users user.Repository, invites invite.Repository, mail mailer.Sender, logger *zap.Logger) *Service {
	return &Service{
		users:   users,
		invites: invites,
		mail:    mail,
		logger:  logger.Named("AuthService"),
	}
}

// Register creates a new email/password account. The account starts inactive
// and unverified; a verification email is dispatched best-effort, so a failing
// mail provider never rolls back the created user.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		if existing.AuthProvider == common.ProviderGoogle {
			return nil, common.ErrConflict.WithDetails(
				"An account with this email already exists using Google sign-in. Please use the 'Sign in with Google' button to access your account.")
		}
		return nil, common.ErrConflict.WithDetails(
			"An account with this email already exists. Please sign in instead or use a different email address.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	// The requested role is never trusted; admin is granted only through a
	// pending invite, which is consumed on success.
	role := common.RoleInfluencer
	pendingInvite, invErr := s.invites.FindPendingByEmail(ctx, req.Email)
	if invErr == nil {
		role = common.RoleAdmin
	} else if !errors.Is(invErr, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check admin invite: %w", invErr)
	}

	hashed, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token, err := NewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification token: %w", err)
	}
	expires := VerificationTokenExpiry()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	usr := &user.User{
		Email:                    &email,
		HashedPassword:           &hashed,
		FirstName:                &req.FirstName,
		LastName:                 &req.LastName,
		Role:                     role,
		AuthProvider:             common.ProviderEmail,
		IsActive:                 false,
		EmailVerified:            false,
		EmailVerificationToken:   &token,
		EmailVerificationExpires: &expires,
	}

	if err := s.users.Create(ctx, usr); err != nil {
		// A racing registration for the same email loses here; surface the
		// store's uniqueness rejection as the conflict it is.
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		s.logger.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if pendingInvite != nil {
		pendingInvite.Status = invite.StatusAccepted
		pendingInvite.UpdatedAt = time.Now()
		if err := s.invites.Update(ctx, pendingInvite); err != nil {
			s.logger.Error("Failed to mark admin invite accepted", zap.Error(err), zap.String("email", email))
		}
	}

	if err := s.mail.SendVerificationEmail(email, req.FirstName, token); err != nil {
		// The account is already created; the caller can request a resend.
		s.logger.Warn("Verification email dispatch failed after registration", zap.Error(err), zap.String("email", email))
	}

	s.logger.Info("User registered", zap.String("userID", usr.ID.String()), zap.String("role", role))
	return usr, nil
}

// Login validates credentials and returns the identity. It does not create a
// session; that is the caller's responsibility. Each failure produces a
// distinct, user-facing error by product requirement.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, error) {
	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails(
				"No account found with this email address. Please check your email or create a new account.")
		}
		return nil, err
	}

	if usr.HashedPassword == nil && usr.AuthProvider == common.ProviderGoogle {
		return nil, common.ErrForbidden.WithDetails(
			"This account was created with Google sign-in. Please use the 'Sign in with Google' button instead.")
	}

	// Defensive branch; should not occur for email-provider accounts.
	if usr.HashedPassword == nil || *usr.HashedPassword == "" {
		s.logger.Error("Email-provider account has no password hash", zap.String("userID", usr.ID.String()))
		return nil, common.ErrInternalServer.WithDetails(
			"Password authentication is not set up for this account. Please contact support.")
	}

	if !common.CheckPasswordHash(password, *usr.HashedPassword) {
		return nil, common.ErrUnauthorized.WithDetails(
			"Incorrect password. Please check your password and try again.")
	}

	if !usr.IsActive && usr.EmailVerified {
		return nil, common.ErrForbidden.WithDetails(
			"Your account has been deactivated. Please contact support to reactivate your account.")
	}

	if !usr.EmailVerified {
		return nil, common.ErrForbidden.WithDetails(
			"Please verify your email address before signing in. Check your inbox for the verification link.")
	}

	now := time.Now()
	usr.LastLoginAt = &now
	if err := s.users.Update(ctx, usr); err != nil {
		// Not critical for authentication; log and proceed.
		s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", usr.ID.String()))
	}

	s.logger.Info("User logged in", zap.String("userID", usr.ID.String()))
	return usr, nil
}

// VerifyEmail consumes a verification token, activating the account. The
// token pair is cleared so it cannot be replayed; the welcome email is
// best-effort because verification has already succeeded.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*user.User, error) {
	usr, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails(
				"Invalid verification token. Please request a new verification email.")
		}
		return nil, err
	}

	if usr.EmailVerificationExpires == nil || IsTokenExpired(*usr.EmailVerificationExpires) {
		return nil, common.ErrTokenExpired.WithDetails(
			"This verification link has expired. Please request a new verification email.")
	}

	usr.EmailVerified = true
	usr.IsActive = true
	usr.EmailVerificationToken = nil
	usr.EmailVerificationExpires = nil
	usr.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to persist email verification: %w", err)
	}

	if usr.Email != nil {
		firstName := ""
		if usr.FirstName != nil {
			firstName = *usr.FirstName
		}
		if err := s.mail.SendWelcomeEmail(*usr.Email, firstName); err != nil {
			s.logger.Warn("Welcome email dispatch failed", zap.Error(err), zap.String("userID", usr.ID.String()))
		}
	}

	s.logger.Info("Email verified", zap.String("userID", usr.ID.String()))
	return usr, nil
}

// ResendVerification issues a fresh verification token, invalidating any
// previous one. Delivery failure propagates: for an explicit resend, delivery
// is the product.
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound.WithDetails("No account found with this email address.")
		}
		return err
	}

	if usr.EmailVerified {
		return common.ErrConflict.WithDetails("This email address is already verified. You can sign in.")
	}

	token, err := NewToken()
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}
	expires := VerificationTokenExpiry()
	usr.EmailVerificationToken = &token
	usr.EmailVerificationExpires = &expires
	usr.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, usr); err != nil {
		return fmt.Errorf("failed to persist new verification token: %w", err)
	}

	firstName := ""
	if usr.FirstName != nil {
		firstName = *usr.FirstName
	}
	if err := s.mail.SendVerificationEmail(*usr.Email, firstName, token); err != nil {
		return common.ErrServiceUnavailable.WithDetails(
			"Could not send the verification email. Please try again later.")
	}
	return nil
}

// RequestPasswordReset issues a reset token for an email/password account and
// mails the reset link. Delivery failure propagates.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound.WithDetails("No account found with this email address.")
		}
		return err
	}

	if usr.AuthProvider == common.ProviderGoogle {
		return common.ErrForbidden.WithDetails(
			"This account uses Google sign-in and has no password to reset. Please use the 'Sign in with Google' button.")
	}

	token, err := NewToken()
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}
	expires := ResetTokenExpiry()
	usr.PasswordResetToken = &token
	usr.PasswordResetExpires = &expires
	usr.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, usr); err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	firstName := ""
	if usr.FirstName != nil {
		firstName = *usr.FirstName
	}
	if err := s.mail.SendPasswordResetEmail(*usr.Email, firstName, token); err != nil {
		return common.ErrServiceUnavailable.WithDetails(
			"Could not send the password reset email. Please try again later.")
	}
	return nil
}

// ResetPassword consumes a reset token and sets a new password. This is a
// trusted-token flow; the old password is not required. The token pair is
// cleared so it cannot be replayed.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (*user.User, error) {
	usr, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound.WithDetails(
				"Invalid or expired reset token. Please request a new password reset.")
		}
		return nil, err
	}

	if usr.PasswordResetExpires == nil || IsTokenExpired(*usr.PasswordResetExpires) {
		return nil, common.ErrTokenExpired.WithDetails(
			"This reset link has expired. Please request a new password reset.")
	}

	hashed, err := common.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash new password: %w", err)
	}

	usr.HashedPassword = &hashed
	usr.PasswordResetToken = nil
	usr.PasswordResetExpires = nil
	usr.UpdatedAt = time.Now()
	if err := s.users.Update(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to persist new password: %w", err)
	}

	s.logger.Info("Password reset completed", zap.String("userID", usr.ID.String()))
	return usr, nil
}

// ShouldLinkByEmail decides whether a Google sign-in may be merged into an
// existing email/password account that shares the address. It trusts Google's
// verified email claim as proof of identity continuity. Isolated here so the
// policy can be hardened or disabled without touching the sign-in flow.
func ShouldLinkByEmail(existing *user.User, profile GoogleProfile) bool {
	return profile.EmailVerified && existing.AuthProvider == common.ProviderEmail
}

// HandleGoogleSignIn resolves a Google profile to a user record: linking into
// an existing email/password account with the same address, or creating a new
// influencer account that starts verified and active. Idempotent per email.
func (s *Service) HandleGoogleSignIn(ctx context.Context, profile GoogleProfile) (*user.User, error) {
	if profile.Email == "" {
		return nil, common.ErrBadRequest.WithDetails("Google profile carries no email address.")
	}

	usr, err := s.users.FindByEmail(ctx, profile.Email)
	if err == nil {
		// Operator deactivation blocks every sign-in path, not just password
		// login. Unverified password accounts are not "deactivated"; the
		// verified Google claim completes their verification below.
		if usr.EmailVerified && !usr.IsActive {
			return nil, common.ErrForbidden.WithDetails(
				"Your account has been deactivated. Please contact support to reactivate your account.")
		}
		if usr.AuthProvider == common.ProviderEmail {
			// Merging into a password account requires the provider's verified
			// email claim; without it this would be a takeover vector.
			if !ShouldLinkByEmail(usr, profile) {
				return nil, common.ErrForbidden.WithDetails(
					"This email is registered with a password. Verify the email with Google before linking, or sign in with your password.")
			}
			usr.GoogleID = &profile.Sub
			usr.AuthProvider = common.ProviderGoogle
			// Google's verified claim completes email verification for an
			// account that registered but never clicked the link.
			usr.EmailVerified = true
			usr.IsActive = true
			usr.EmailVerificationToken = nil
			usr.EmailVerificationExpires = nil
			if usr.ProfileImageURL == nil && profile.Picture != "" {
				usr.ProfileImageURL = &profile.Picture
			}
			usr.UpdatedAt = time.Now()
			if err := s.users.Update(ctx, usr); err != nil {
				return nil, fmt.Errorf("failed to link Google account: %w", err)
			}
			s.logger.Info("Linked Google identity to existing account",
				zap.String("userID", usr.ID.String()), zap.String("googleID", profile.Sub))
		}
		now := time.Now()
		usr.LastLoginAt = &now
		if err := s.users.Update(ctx, usr); err != nil {
			s.logger.Error("Failed to update last login time", zap.Error(err), zap.String("userID", usr.ID.String()))
		}
		return usr, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(profile.Email))
	now := time.Now()
	newUser := &user.User{
		Email:         &email,
		Role:          common.RoleInfluencer,
		AuthProvider:  common.ProviderGoogle,
		GoogleID:      &profile.Sub,
		IsActive:      true,
		EmailVerified: true,
		LastLoginAt:   &now,
	}
	if profile.GivenName != "" {
		newUser.FirstName = &profile.GivenName
	}
	if profile.FamilyName != "" {
		newUser.LastName = &profile.FamilyName
	}
	if profile.Picture != "" {
		newUser.ProfileImageURL = &profile.Picture
	}

	if err := s.users.Create(ctx, newUser); err != nil {
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to create Google user: %w", err)
	}

	s.logger.Info("New user provisioned from Google profile", zap.String("userID", newUser.ID.String()))
	return newUser, nil
}
