// File: internal/invite/model.go
package invite

import (
	"influencer_platform_backend/internal/common"
)

// Invite status values.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// AdminInvite is a pre-approval record. A registration matching a pending
// invite's email is promoted to admin and the invite is marked accepted.
type AdminInvite struct {
	common.BaseModel
	Email     string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	FirstName string `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name"`
	Status    string `gorm:"type:varchar(50);not null;default:'pending'" json:"status"`
}

// TableName specifies the table name for GORM.
func (AdminInvite) TableName() string {
	return "admin_invites"
}

// CreateInviteRequest is the admin request to pre-approve an email for the
// admin role.
type CreateInviteRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}
