// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceKey  string     `json:"resource_key" gorm:"size:50;index"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification is the persisted domain event consumed by the delivery
// collaborator. For lifecycle transitions Data carries
// {request_key, from_status, to_status}.
type Notification struct {
	BaseModel
	Type       string             `json:"type" gorm:"type:varchar(50);not null;index"`
	Title      string             `json:"title" gorm:"size:255;not null"`
	Message    string             `json:"message" gorm:"type:text;not null"`
	Priority   string             `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Status     NotificationStatus `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	RequestKey string             `json:"request_key" gorm:"size:20;index"`
	Data       JSONB              `json:"data" gorm:"type:jsonb"`
	ReadAt     *time.Time         `json:"read_at"`
}
