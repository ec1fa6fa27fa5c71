// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"influencer_platform_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for influencer profiles.
type Repository interface {
	Create(ctx context.Context, p *InfluencerProfile) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*InfluencerProfile, error)
	FindAllWithUser(ctx context.Context) ([]InfluencerProfile, error)
	Update(ctx context.Context, p *InfluencerProfile) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM influencer profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, p *InfluencerProfile) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A profile already exists for this user.")
		}
		return fmt.Errorf("failed to create influencer profile: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*InfluencerProfile, error) {
	var p InfluencerProfile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Influencer profile not found.")
		}
		return nil, fmt.Errorf("failed to find influencer profile: %w", err)
	}
	return &p, nil
}

// FindAllWithUser returns profiles whose owner still holds the influencer
// role, for the admin roster.
func (r *gormRepository) FindAllWithUser(ctx context.Context) ([]InfluencerProfile, error) {
	var profiles []InfluencerProfile
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = influencer_profiles.user_id").
		Where("users.role = ?", common.RoleInfluencer).
		Preload("User").
		Order("influencer_profiles.created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list influencer profiles: %w", err)
	}
	return profiles, nil
}

func (r *gormRepository) Update(ctx context.Context, p *InfluencerProfile) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("failed to update influencer profile: %w", err)
	}
	return nil
}

// isUniqueViolation detects unique-constraint failures from postgres and the
// sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
