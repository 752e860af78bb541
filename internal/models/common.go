// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums

// Role is the fixed set of principal roles. Roles are immutable once
// assigned; reassignment happens through user management only.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleApprover   Role = "approver"
	RoleRequester  Role = "requester"
)

// RequestStatus is the fixed lifecycle status set. The string values are a
// contract with the UI layer and must round-trip exactly.
type RequestStatus string

const (
	StatusRequestCreated RequestStatus = "Request Created"
	StatusPreApproval    RequestStatus = "Pre-Approval"
	StatusReviewStage    RequestStatus = "Request Review Stage"
	StatusNegotiation    RequestStatus = "Negotiation Stage"
	StatusPostApproval   RequestStatus = "Post Approval"
	StatusCompleted      RequestStatus = "Completed"
	StatusDeclined       RequestStatus = "Declined"
)

// IsTerminal reports whether a status has no outgoing transitions.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDeclined
}

// ProposalSlot is one of the four ordered negotiation submissions.
type ProposalSlot string

const (
	SlotFirst  ProposalSlot = "first"
	SlotSecond ProposalSlot = "second"
	SlotThird  ProposalSlot = "third"
	SlotFinal  ProposalSlot = "final"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)
