// File: internal/profile/model.go
package profile

import (
	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/user"

	"github.com/google/uuid"
)

// InfluencerProfile is the public-facing creator profile attached to a user.
// One profile per user.
type InfluencerProfile struct {
	common.BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Bio         *string    `gorm:"type:text" json:"bio,omitempty"`
	Niches      StringList `gorm:"type:text" json:"niches,omitempty"`
	Rates       JSONMap    `gorm:"type:text" json:"rates,omitempty"`
	SocialLinks JSONMap    `gorm:"type:text" json:"social_links,omitempty"`
	Followers   JSONMap    `gorm:"type:text" json:"followers,omitempty"`
	Engagement  JSONMap    `gorm:"type:text" json:"engagement,omitempty"`
	Location    *string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	Languages   StringList `gorm:"type:text" json:"languages,omitempty"`
	User        *user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for the InfluencerProfile model.
func (InfluencerProfile) TableName() string {
	return "influencer_profiles"
}

// UpsertProfileRequest is the payload for creating or patching a profile.
// Every field is optional; absent fields are left untouched on update.
type UpsertProfileRequest struct {
	Bio         *string    `json:"bio"`
	Niches      StringList `json:"niches"`
	Rates       JSONMap    `json:"rates"`
	SocialLinks JSONMap    `json:"social_links"`
	Followers   JSONMap    `json:"followers"`
	Engagement  JSONMap    `json:"engagement"`
	Location    *string    `json:"location" binding:"omitempty,max=255"`
	Languages   StringList `json:"languages"`
}

// WithUser pairs a profile with its owner for the admin influencer roster.
type WithUser struct {
	InfluencerProfile
	Owner *user.Response `json:"user"`
}
