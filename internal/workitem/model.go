// File: internal/workitem/model.go
package workitem

import (
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/user"

	"github.com/google/uuid"
)

// Work item lifecycle states, in delivery order.
const (
	StatusBriefSent        = "brief_sent"
	StatusContentSubmitted = "content_submitted"
	StatusApproved         = "approved"
	StatusPaid             = "paid"
)

// WorkItem tracks a single piece of campaign work assigned to an influencer.
type WorkItem struct {
	common.BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CampaignID  *string    `gorm:"type:varchar(255)" json:"campaign_id,omitempty"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	Status      string     `gorm:"type:varchar(20);not null;default:'brief_sent'" json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	User        *user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for the WorkItem model.
func (WorkItem) TableName() string {
	return "work_items"
}

// CreateWorkItemRequest is the payload for creating a work item.
type CreateWorkItemRequest struct {
	CampaignID  *string    `json:"campaign_id"`
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateStatusRequest advances a work item through its lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=brief_sent content_submitted approved paid"`
}

// WithUser pairs a work item with its owner for admin listings.
type WithUser struct {
	WorkItem
	Owner *user.Response `json:"user"`
}
