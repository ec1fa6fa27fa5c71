// File: internal/user/repository.go
package user

import (
	"context"
	"errors"
	"strings"

	"influencer_platform_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for user data operations.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	FindByResetToken(ctx context.Context, token string) (*User, error)
	Update(ctx context.Context, user *User) error
	List(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM user repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "unique constraint") ||
		strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}

// Create inserts a new user record. The store's uniqueness constraint on email
// is the arbiter for concurrent registrations of the same address; the second
// insert surfaces here as a Conflict.
func (r *gormRepository) Create(ctx context.Context, user *User) error {
	if user.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*user.Email))
		user.Email = &normalized
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("User with this email already exists.")
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by their email address.
func (r *gormRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var userModel User
	normalized := strings.ToLower(strings.TrimSpace(email))
	err := r.db.WithContext(ctx).Where("email = ?", normalized).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this email.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByID retrieves a user by their ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this ID.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByGoogleID retrieves a user by their Google account identifier.
func (r *gormRepository) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("google_id = ?", googleID).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("User not found with this Google account.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByVerificationToken retrieves a user holding the given email
// verification token. Consumed tokens are cleared and therefore not found.
func (r *gormRepository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("email_verification_token = ?", token).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("No user holds this verification token.")
		}
		return nil, err
	}
	return &userModel, nil
}

// FindByResetToken retrieves a user holding the given password reset token.
func (r *gormRepository) FindByResetToken(ctx context.Context, token string) (*User, error) {
	var userModel User
	err := r.db.WithContext(ctx).Where("password_reset_token = ?", token).First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("No user holds this reset token.")
		}
		return nil, err
	}
	return &userModel, nil
}

// Update modifies an existing user record in the database.
func (r *gormRepository) Update(ctx context.Context, user *User) error {
	if user.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*user.Email))
		user.Email = &normalized
	}
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("Update failed: email already taken.")
		}
		return err
	}
	return nil
}

// List returns a page of users ordered by creation time, newest first.
func (r *gormRepository) List(ctx context.Context, page, pageSize int) ([]User, *common.Pagination, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var users []User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, nil, err
	}
	return users, common.NewPagination(total, page, pageSize), nil
}
