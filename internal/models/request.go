// internal/models/request.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProcurementRequest is a request moving through the approval lifecycle.
// Status is the only field the state machine mutates directly; everything
// else changes through the edit surface.
type ProcurementRequest struct {
	BaseModel
	Key           string        `json:"key" gorm:"uniqueIndex;size:20;not null"`
	Title         string        `json:"title" gorm:"size:255;not null"`
	Status        RequestStatus `json:"status" gorm:"type:varchar(30);not null;index"`
	Organization  *string       `json:"organization" gorm:"size:255;index"`
	Department    *string       `json:"department" gorm:"size:255;index"`
	CreatorID     uuid.UUID     `json:"creator_id" gorm:"type:uuid;not null;index"`
	Fields        JSONB         `json:"fields" gorm:"type:jsonb"`
	OptimizedCost *float64      `json:"optimized_cost" gorm:"type:decimal(15,2)"`
	FinalizedAt   *time.Time    `json:"finalized_at"`

	// Relationships
	Creator   *User      `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Proposals []Proposal `json:"proposals,omitempty" gorm:"foreignKey:RequestID"`
}

// Canonical field names resolved against the Fields bag. Callers use these
// instead of probing raw JSON keys.
const (
	FieldVendor       = "vendor"
	FieldCostCenter   = "cost_center"
	FieldLicenseCount = "license_count"
	FieldUnitCost     = "unit_cost"
	FieldCurrency     = "currency"
	FieldDescription  = "description"
)

// fieldSchema maps canonical names to the stored key. A single resolved
// schema keeps lookups deterministic; there is no multi-key fallback chain.
var fieldSchema = map[string]string{
	FieldVendor:       "vendor",
	FieldCostCenter:   "cost_center",
	FieldLicenseCount: "license_count",
	FieldUnitCost:     "unit_cost",
	FieldCurrency:     "currency",
	FieldDescription:  "description",
}

// FieldString returns the string value of a canonical field, coercing where
// the bag holds a compatible type.
func (r *ProcurementRequest) FieldString(name string) (string, bool) {
	raw, ok := r.rawField(name)
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// FieldFloat returns the numeric value of a canonical field. JSON numbers
// decode as float64; json.Number is handled for drivers that preserve it.
func (r *ProcurementRequest) FieldFloat(name string) (float64, bool) {
	raw, ok := r.rawField(name)
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// SetField writes a canonical field into the bag, allocating it on first use.
func (r *ProcurementRequest) SetField(name string, value interface{}) {
	key, ok := fieldSchema[name]
	if !ok {
		return
	}
	if r.Fields == nil {
		r.Fields = make(JSONB)
	}
	r.Fields[key] = value
}

func (r *ProcurementRequest) rawField(name string) (interface{}, bool) {
	key, ok := fieldSchema[name]
	if !ok || r.Fields == nil {
		return nil, false
	}
	raw, ok := r.Fields[key]
	return raw, ok
}

// Proposal is one negotiation submission. Rows are append-only: no edit, no
// delete once submitted. The (request_id, slot) pair is unique so a slot can
// be submitted at most once even under concurrent submissions.
type Proposal struct {
	BaseModel
	RequestID    uuid.UUID    `json:"request_id" gorm:"type:uuid;not null;uniqueIndex:idx_proposals_request_slot"`
	Slot         ProposalSlot `json:"slot" gorm:"type:varchar(10);not null;uniqueIndex:idx_proposals_request_slot"`
	LicenseCount float64      `json:"license_count" gorm:"not null"`
	UnitCost     float64      `json:"unit_cost" gorm:"type:decimal(15,2);not null"`
	TotalCost    float64      `json:"total_cost" gorm:"type:decimal(15,2);not null"`
	Comment      string       `json:"comment" gorm:"type:text"`
	SubmittedBy  uuid.UUID    `json:"submitted_by" gorm:"type:uuid;not null"`
	SubmittedAt  time.Time    `json:"submitted_at" gorm:"not null"`

	// Relationships
	Request   *ProcurementRequest `json:"request,omitempty" gorm:"foreignKey:RequestID"`
	Submitter *User               `json:"submitter,omitempty" gorm:"foreignKey:SubmittedBy"`
}
