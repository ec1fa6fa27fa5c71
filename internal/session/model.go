// File: internal/session/model.go
package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side record binding a transport-level credential (the
// session cookie value) to a resolved identity, with a fixed TTL.
type Session struct {
	SID       string    `gorm:"column:sid;type:varchar(64);primary_key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Data      string    `gorm:"type:text;not null"` // serialized shared.Identity
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null;default:current_timestamp"`
}

// TableName specifies the table name for GORM.
func (Session) TableName() string {
	return "sessions"
}
