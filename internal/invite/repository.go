// File: internal/invite/repository.go
package invite

import (
	"context"
	"errors"
	"strings"

	"influencer_platform_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for admin invite data operations.
type Repository interface {
	Create(ctx context.Context, inv *AdminInvite) error
	FindPendingByEmail(ctx context.Context, email string) (*AdminInvite, error)
	ListAll(ctx context.Context) ([]AdminInvite, error)
	Update(ctx context.Context, inv *AdminInvite) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM admin invite repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, inv *AdminInvite) error {
	inv.Email = strings.ToLower(strings.TrimSpace(inv.Email))
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "unique constraint") ||
			strings.Contains(err.Error(), "UNIQUE constraint") {
			return common.ErrConflict.WithDetails("An invite for this email already exists.")
		}
		return err
	}
	return nil
}

// FindPendingByEmail returns the pending invite for the email, if any.
// Accepted invites are deliberately excluded; they have been consumed.
func (r *gormRepository) FindPendingByEmail(ctx context.Context, email string) (*AdminInvite, error) {
	var inv AdminInvite
	normalized := strings.ToLower(strings.TrimSpace(email))
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", normalized, StatusPending).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("No pending invite for this email.")
		}
		return nil, err
	}
	return &inv, nil
}

func (r *gormRepository) ListAll(ctx context.Context) ([]AdminInvite, error) {
	var invites []AdminInvite
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

func (r *gormRepository) Update(ctx context.Context, inv *AdminInvite) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&AdminInvite{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Invite not found.")
	}
	return nil
}
