// File: internal/payment/model.go
package payment

import (
	"time"

	"influencer_platform_backend/internal/common"
	"influencer_platform_backend/internal/user"

	"github.com/google/uuid"
)

// Payment request lifecycle states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusPaid     = "paid"
	StatusRejected = "rejected"
)

// PaymentRequest is an influencer's request to be paid for delivered content.
type PaymentRequest struct {
	common.BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CampaignID  *string    `gorm:"type:varchar(255)" json:"campaign_id,omitempty"`
	Amount      string     `gorm:"type:varchar(64);not null" json:"amount"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	InvoiceURL  *string    `gorm:"type:varchar(2048)" json:"invoice_url,omitempty"`
	ContentURL  *string    `gorm:"type:varchar(2048)" json:"content_url,omitempty"`
	AdminNotes  *string    `gorm:"type:text" json:"admin_notes,omitempty"`
	SubmittedAt time.Time  `gorm:"not null" json:"submitted_at"`
	User        *user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for the PaymentRequest model.
func (PaymentRequest) TableName() string {
	return "payment_requests"
}

// CreatePaymentRequestRequest is the payload for submitting a payment request.
type CreatePaymentRequestRequest struct {
	CampaignID *string `json:"campaign_id"`
	Amount     string  `json:"amount" binding:"required"`
	InvoiceURL *string `json:"invoice_url" binding:"omitempty,url"`
	ContentURL *string `json:"content_url" binding:"omitempty,url"`
}

// UpdateStatusRequest is the admin payload for reviewing a payment request.
type UpdateStatusRequest struct {
	Status     string  `json:"status" binding:"required,oneof=pending approved paid rejected"`
	AdminNotes *string `json:"admin_notes"`
}

// WithUser pairs a payment request with its owner for admin listings.
type WithUser struct {
	PaymentRequest
	Owner *user.Response `json:"user"`
}
