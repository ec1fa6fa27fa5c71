// File: internal/user/model.go
package user

import (
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/shared"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel
	Email           *string `gorm:"type:varchar(255);uniqueIndex"`
	HashedPassword  *string `gorm:"type:varchar(255)"` // NULL for pure OAuth accounts
	FirstName       *string `gorm:"type:varchar(100)"`
	LastName        *string `gorm:"type:varchar(100)"`
	ProfileImageURL *string `gorm:"type:text"`
	Role            string  `gorm:"type:varchar(50);not null;default:'influencer'"`
	AuthProvider    string  `gorm:"type:varchar(50);not null;default:'email'"`
	GoogleID        *string `gorm:"type:varchar(255);index"`
	// Default false so a freshly registered account stays inactive until email
	// verification; an explicit true on OAuth create is written as usual.
	IsActive        bool    `gorm:"not null;default:false"`
	EmailVerified   bool    `gorm:"not null;default:false"`

	// Single-use, time-limited credential pairs. Cleared on consumption.
	EmailVerificationToken   *string    `gorm:"type:varchar(255);index"`
	EmailVerificationExpires *time.Time
	PasswordResetToken       *string    `gorm:"type:varchar(255);index"`
	PasswordResetExpires     *time.Time

	LastLoginAt *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Sanitize removes credential secrets before the record leaves the service layer.
func (u *User) Sanitize() {
	u.HashedPassword = nil
	u.EmailVerificationToken = nil
	u.PasswordResetToken = nil
}

// Identity converts the record into the request-scoped identity shape.
func (u *User) Identity() *shared.Identity {
	ident := &shared.Identity{
		UserID:       u.ID,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
	}
	if u.Email != nil {
		ident.Email = *u.Email
	}
	if u.FirstName != nil {
		ident.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		ident.LastName = *u.LastName
	}
	return ident
}

// --- DTOs for API responses ---

// Response defines the structure for user data sent in API responses.
type Response struct {
	ID              uuid.UUID  `json:"id"`
	Email           *string    `json:"email,omitempty"`
	FirstName       *string    `json:"first_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	Role            string     `json:"role"`
	AuthProvider    string     `json:"auth_provider"`
	IsActive        bool       `json:"is_active"`
	EmailVerified   bool       `json:"email_verified"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

// ToResponse converts the User model to a Response DTO. Credential secrets
// and token pairs are never part of the response shape.
func (u *User) ToResponse() Response {
	return Response{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
		Role:            u.Role,
		AuthProvider:    u.AuthProvider,
		IsActive:        u.IsActive,
		EmailVerified:   u.EmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		LastLoginAt:     u.LastLoginAt,
	}
}

// UpdateRoleRequest is the admin request to change a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=influencer admin"`
}

// UpdateStatusRequest is the admin request to activate or deactivate a user.
type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
