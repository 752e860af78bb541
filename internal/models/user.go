// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username       string      `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email          string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash   string      `json:"-" gorm:"size:255;not null"`
	Role           Role        `json:"role" gorm:"type:varchar(20);not null"`
	Status         UserStatus  `json:"status" gorm:"type:varchar(20);default:'active'"`
	OrganizationID *uuid.UUID  `json:"organization_id" gorm:"type:uuid;index"`
	DepartmentID   *uuid.UUID  `json:"department_id" gorm:"type:uuid;index"`
	ProfileData    JSONB       `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt    *time.Time  `json:"last_login_at"`

	// Relationships
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
	Department   *Department   `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// DepartmentName returns the name of the user's department, empty when the
// user is not assigned to one.
func (u *User) DepartmentName() string {
	if u.Department == nil {
		return ""
	}
	return u.Department.Name
}
