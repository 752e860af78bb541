// internal/models/organization.go
package models

import "github.com/google/uuid"

type Organization struct {
	BaseModel
	Name string `json:"name" gorm:"uniqueIndex;size:255;not null"`

	// Relationships
	Departments []Department `json:"departments,omitempty" gorm:"foreignKey:OrganizationID"`
}

type Department struct {
	BaseModel
	OrganizationID uuid.UUID `json:"organization_id" gorm:"type:uuid;not null;index"`
	Name           string    `json:"name" gorm:"size:255;not null"`

	// Relationships
	Organization *Organization `json:"organization,omitempty" gorm:"foreignKey:OrganizationID"`
}
