// File: internal/payment/repository.go
package payment

import (
	"context"
	"errors"
	"fmt"

	"influencer_platform_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for payment requests.
type Repository interface {
	Create(ctx context.Context, req *PaymentRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]PaymentRequest, error)
	FindAllWithUser(ctx context.Context) ([]PaymentRequest, error)
	Update(ctx context.Context, req *PaymentRequest) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM payment request repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, req *PaymentRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create payment request: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*PaymentRequest, error) {
	var req PaymentRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Payment request not found.")
		}
		return nil, fmt.Errorf("failed to find payment request by ID: %w", err)
	}
	return &req, nil
}

func (r *gormRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]PaymentRequest, error) {
	var reqs []PaymentRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests for user: %w", err)
	}
	return reqs, nil
}

func (r *gormRepository) FindAllWithUser(ctx context.Context) ([]PaymentRequest, error) {
	var reqs []PaymentRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("submitted_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}
	return reqs, nil
}

func (r *gormRepository) Update(ctx context.Context, req *PaymentRequest) error {
	if err := r.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to update payment request: %w", err)
	}
	return nil
}
