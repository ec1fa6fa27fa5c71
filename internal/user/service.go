// File: internal/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service exposes user directory operations to handlers and middleware.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

var _ shared.Provisioner = (*Service)(nil)

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetByID retrieves a user by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByEmail retrieves a user by email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// List returns a page of users for the admin directory view.
func (s *Service) List(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error) {
	return s.repo.List(ctx, page, pageSize)
}

// SetRole changes a user's role. Admin-only operation.
func (s *Service) SetRole(ctx context.Context, id uuid.UUID, role string) (*User, error) {
	if role != common.RoleInfluencer && role != common.RoleAdmin {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown role %q.", role))
	}
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	usr.Role = role
	usr.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, usr); err != nil {
		return nil, err
	}
	s.logger.Info("User role updated", zap.String("userID", id.String()), zap.String("role", role))
	return usr, nil
}

// SetActive activates or deactivates a user. Deactivated users cannot
// authenticate until reactivated by an operator.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*User, error) {
	usr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	usr.IsActive = active
	usr.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, usr); err != nil {
		return nil, err
	}
	s.logger.Info("User active status updated", zap.String("userID", id.String()), zap.Bool("isActive", active))
	return usr, nil
}

// ProvisionFromEdgeClaims resolves the user record for an edge-authenticated
// caller, creating it on first contact. The proxy has already verified the
// identity, so provisioned accounts start verified and active.
func (s *Service) ProvisionFromEdgeClaims(ctx context.Context, claims shared.EdgeClaims) (*shared.Identity, error) {
	if claims.Email == "" {
		return nil, common.ErrUnauthorized.WithDetails("Edge identity assertion carries no email.")
	}

	existing, err := s.repo.FindByEmail(ctx, claims.Email)
	if err == nil {
		if !existing.IsActive {
			return nil, common.ErrForbidden.WithDetails("Your account has been deactivated. Please contact support to reactivate your account.")
		}
		return existing.Identity(), nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	usr := &User{
		Email:         &email,
		Role:          common.RoleInfluencer,
		AuthProvider:  common.ProviderEmail,
		IsActive:      true,
		EmailVerified: true,
	}
	if claims.GivenName != "" {
		usr.FirstName = &claims.GivenName
	}
	if claims.FamilyName != "" {
		usr.LastName = &claims.FamilyName
	}
	if claims.Picture != "" {
		usr.ProfileImageURL = &claims.Picture
	}

	if err := s.repo.Create(ctx, usr); err != nil {
		// A concurrent first request may have created the record already.
		if errors.Is(err, common.ErrConflict) {
			if existing, findErr := s.repo.FindByEmail(ctx, email); findErr == nil {
				return existing.Identity(), nil
			}
		}
		s.logger.Error("Failed to auto-provision edge-authenticated user", zap.Error(err), zap.String("email", email))
		return nil, err
	}

	s.logger.Info("Auto-provisioned user from edge identity", zap.String("userID", usr.ID.String()), zap.String("email", email))
	return usr.Identity(), nil
}
