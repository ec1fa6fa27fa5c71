// File: internal/workitem/repository.go
package workitem

import (
	"context"
	"errors"
	"fmt"

	"influencer_platform_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for work items.
type Repository interface {
	Create(ctx context.Context, item *WorkItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*WorkItem, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]WorkItem, error)
	FindAllWithUser(ctx context.Context) ([]WorkItem, error)
	Update(ctx context.Context, item *WorkItem) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM work item repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, item *WorkItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create work item: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*WorkItem, error) {
	var item WorkItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Work item not found.")
		}
		return nil, fmt.Errorf("failed to find work item by ID: %w", err)
	}
	return &item, nil
}

func (r *gormRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]WorkItem, error) {
	var items []WorkItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list work items for user: %w", err)
	}
	return items, nil
}

func (r *gormRepository) FindAllWithUser(ctx context.Context) ([]WorkItem, error) {
	var items []WorkItem
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list work items: %w", err)
	}
	return items, nil
}

func (r *gormRepository) Update(ctx context.Context, item *WorkItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("failed to update work item: %w", err)
	}
	return nil
}
