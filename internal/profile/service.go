// File: internal/profile/service.go
package profile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service applies influencer profile rules on top of the repository.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new influencer profile service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.Named("ProfileService")}
}

// Create creates the caller's profile. One per user; a second create is a
// conflict.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req UpsertProfileRequest) (*InfluencerProfile, error) {
	p := &InfluencerProfile{
		UserID:      userID,
		Bio:         req.Bio,
		Niches:      req.Niches,
		Rates:       req.Rates,
		SocialLinks: req.SocialLinks,
		Followers:   req.Followers,
		Engagement:  req.Engagement,
		Location:    req.Location,
		Languages:   req.Languages,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Influencer profile created", zap.String("userID", userID.String()))
	return p, nil
}

// GetOwn returns the caller's profile.
func (s *Service) GetOwn(ctx context.Context, userID uuid.UUID) (*InfluencerProfile, error) {
	return s.repo.FindByUser(ctx, userID)
}

// Patch updates the caller's profile. Absent fields are left untouched.
func (s *Service) Patch(ctx context.Context, userID uuid.UUID, req UpsertProfileRequest) (*InfluencerProfile, error) {
	p, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		p.Bio = req.Bio
	}
	if req.Niches != nil {
		p.Niches = req.Niches
	}
	if req.Rates != nil {
		p.Rates = req.Rates
	}
	if req.SocialLinks != nil {
		p.SocialLinks = req.SocialLinks
	}
	if req.Followers != nil {
		p.Followers = req.Followers
	}
	if req.Engagement != nil {
		p.Engagement = req.Engagement
	}
	if req.Location != nil {
		p.Location = req.Location
	}
	if req.Languages != nil {
		p.Languages = req.Languages
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListAll returns the admin influencer roster: every profile whose owner is
// still an influencer, with the owner attached.
func (s *Service) ListAll(ctx context.Context) ([]WithUser, error) {
	profiles, err := s.repo.FindAllWithUser(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]WithUser, 0, len(profiles))
	for i := range profiles {
		entry := WithUser{InfluencerProfile: profiles[i]}
		if profiles[i].User != nil {
			resp := profiles[i].User.ToResponse()
			entry.Owner = &resp
		}
		entry.User = nil
		out = append(out, entry)
	}
	return out, nil
}
