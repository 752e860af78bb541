// internal/services/negotiation_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/openprocure/procure-backend/internal/database"
	"github.com/openprocure/procure-backend/internal/models"
	"github.com/openprocure/procure-backend/internal/policy"
	"github.com/openprocure/procure-backend/internal/utils"
)

// NegotiationService is the single source of truth for the proposal sequence
// of a request: which of the four ordered slots have been submitted, whether
// the final proposal locked the negotiation, and the derived optimized cost.
type NegotiationService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type SubmitProposalRequest struct {
	Slot         string  `json:"slot" validate:"required,proposal_slot"`
	LicenseCount float64 `json:"license_count" validate:"gte=0"`
	UnitCost     float64 `json:"unit_cost" validate:"gte=0"`
	Comment      string  `json:"comment,omitempty"`
}

// WorkflowState is the one authoritative read of a request's negotiation
// progress. Callers never reconcile overlapping signals themselves.
type WorkflowState struct {
	RequestKey    string                        `json:"request_key"`
	Submitted     map[models.ProposalSlot]bool  `json:"submitted"`
	Proposals     []models.Proposal             `json:"proposals"`
	OptimizedCost *float64                      `json:"optimized_cost"`
	FinalizedAt   *time.Time                    `json:"finalized_at"`
}

// FinalizationRecord is returned by Finalize; calling Finalize again for the
// same request returns the same record without re-applying effects.
type FinalizationRecord struct {
	RequestKey    string    `json:"request_key"`
	LicenseCount  float64   `json:"license_count"`
	UnitCost      float64   `json:"unit_cost"`
	TotalCost     float64   `json:"total_cost"`
	OptimizedCost float64   `json:"optimized_cost"`
	FinalizedAt   time.Time `json:"finalized_at"`
}

// slotPrerequisite enforces the strict ordering of the numbered slots. The
// final slot has no prerequisite; it may close the sequence at any point.
var slotPrerequisite = map[models.ProposalSlot]models.ProposalSlot{
	models.SlotSecond: models.SlotFirst,
	models.SlotThird:  models.SlotSecond,
}

func NewNegotiationService(db *gorm.DB, notificationService *NotificationService) *NegotiationService {
	return &NegotiationService{
		db:                  db,
		notificationService: notificationService,
	}
}

// SubmitProposal appends one proposal submission to the request. Slots are
// append-only: a slot submits at most once, numbered slots submit in order,
// and once the final slot is in no further submission of any kind is
// accepted.
func (s *NegotiationService) SubmitProposal(key string, p policy.Principal, req *SubmitProposalRequest) (*models.Proposal, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !policy.HasPermission(p.Role, policy.PermissionSubmitProposal) {
		return nil, fmt.Errorf("%w: role %s may not submit proposals", ErrForbidden, p.Role)
	}

	slot := models.ProposalSlot(req.Slot)

	var proposal *models.Proposal
	var lockedRequest *models.ProcurementRequest
	var lockedCost float64

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var request models.ProcurementRequest
		if err := tx.Where("key = ?", key).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return persistence("submit proposal", err)
		}

		if !policy.CanAccess(p, request.Organization, request.Department) {
			return fmt.Errorf("%w: request %s is outside your scope", ErrForbidden, key)
		}

		if request.Status != models.StatusNegotiation {
			return fmt.Errorf("%w: current status is %q", ErrNotInNegotiation, request.Status)
		}

		// Serialize submissions per request: writing the request row blocks
		// a concurrent submitter until this transaction commits, so the slot
		// checks below always see every committed proposal. Without this,
		// two read-committed transactions could each miss the other's row
		// and break the final lock.
		res := tx.Model(&models.ProcurementRequest{}).
			Where("id = ? AND status = ?", request.ID, models.StatusNegotiation).
			Update("updated_at", time.Now())
		if res.Error != nil {
			return persistence("submit proposal", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: request %s left negotiation concurrently", ErrConflict, key)
		}

		var existing []models.Proposal
		if err := tx.Where("request_id = ?", request.ID).
			Order("submitted_at ASC").Find(&existing).Error; err != nil {
			return persistence("submit proposal", err)
		}

		submitted := make(map[models.ProposalSlot]bool, len(existing))
		for _, pr := range existing {
			submitted[pr.Slot] = true
		}

		// The final lock beats every other check, including a second "final".
		if submitted[models.SlotFinal] {
			return fmt.Errorf("%w: no further submissions accepted for %s", ErrFinalLocked, key)
		}
		if submitted[slot] {
			return fmt.Errorf("%w: slot %q", ErrAlreadySubmitted, slot)
		}
		if prereq, ok := slotPrerequisite[slot]; ok && !submitted[prereq] {
			return fmt.Errorf("%w: %q requires %q first", ErrOutOfOrder, slot, prereq)
		}

		proposal = &models.Proposal{
			RequestID:    request.ID,
			Slot:         slot,
			LicenseCount: req.LicenseCount,
			UnitCost:     req.UnitCost,
			TotalCost:    req.LicenseCount * req.UnitCost,
			Comment:      req.Comment,
			SubmittedBy:  p.UserID,
			SubmittedAt:  time.Now(),
		}

		if err := tx.Create(proposal).Error; err != nil {
			return persistence("submit proposal", err)
		}

		if slot == models.SlotFinal {
			optimized := optimizedCost(existing, proposal)
			if err := tx.Model(&models.ProcurementRequest{}).
				Where("id = ?", request.ID).
				Update("optimized_cost", optimized).Error; err != nil {
				return persistence("submit proposal", err)
			}
			request.OptimizedCost = &optimized
			lockedRequest = &request
			lockedCost = optimized
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if lockedRequest != nil && s.notificationService != nil {
		if nerr := s.notificationService.RecordNegotiationEvent(lockedRequest, lockedCost); nerr != nil {
			logrus.WithError(nerr).WithField("request_key", key).
				Error("Failed to record negotiation event")
		}
	}

	return proposal, nil
}

// optimizedCost derives the savings figure: most recent non-final submission
// minus the final total. With no non-final baseline the figure is zero. A
// negative value means the final proposal cost more than the prior quote; it
// is surfaced as-is, never clamped.
func optimizedCost(nonFinal []models.Proposal, final *models.Proposal) float64 {
	var baseline *models.Proposal
	for i := range nonFinal {
		pr := &nonFinal[i]
		if pr.Slot == models.SlotFinal {
			continue
		}
		if baseline == nil || pr.SubmittedAt.After(baseline.SubmittedAt) {
			baseline = pr
		}
	}
	if baseline == nil {
		return 0
	}
	return baseline.TotalCost - final.TotalCost
}

// State returns the authoritative workflow state for a request.
func (s *NegotiationService) State(key string, p policy.Principal) (*WorkflowState, error) {
	var request models.ProcurementRequest
	if err := s.db.Where("key = ?", key).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, persistence("load workflow state", err)
	}

	if !policy.CanAccess(p, request.Organization, request.Department) {
		return nil, fmt.Errorf("%w: request %s is outside your scope", ErrForbidden, key)
	}

	var proposals []models.Proposal
	if err := s.db.Where("request_id = ?", request.ID).
		Order("submitted_at ASC").Find(&proposals).Error; err != nil {
		return nil, persistence("load workflow state", err)
	}

	submitted := map[models.ProposalSlot]bool{
		models.SlotFirst:  false,
		models.SlotSecond: false,
		models.SlotThird:  false,
		models.SlotFinal:  false,
	}
	for _, pr := range proposals {
		submitted[pr.Slot] = true
	}

	return &WorkflowState{
		RequestKey:    request.Key,
		Submitted:     submitted,
		Proposals:     proposals,
		OptimizedCost: request.OptimizedCost,
		FinalizedAt:   request.FinalizedAt,
	}, nil
}

// CanLeaveNegotiation is the single gate the lifecycle coordinator consults
// before letting any role, super admin included, transition out of
// Negotiation Stage. It is true iff the final proposal has been submitted,
// and once true it stays true.
func (s *NegotiationService) CanLeaveNegotiation(key string) (bool, error) {
	var request models.ProcurementRequest
	if err := s.db.Where("key = ?", key).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, persistence("negotiation gate", err)
	}
	return s.finalSubmitted(s.db, request.ID)
}

func (s *NegotiationService) finalSubmitted(tx *gorm.DB, requestID uuid.UUID) (bool, error) {
	var count int64
	if err := tx.Model(&models.Proposal{}).
		Where("request_id = ? AND slot = ?", requestID, models.SlotFinal).
		Count(&count).Error; err != nil {
		return false, persistence("negotiation gate", err)
	}
	return count > 0, nil
}

// Finalize commits the negotiation outcome to the authoritative request
// record: the final license count and unit cost become request fields and
// the finalization timestamp is set. It is idempotent; retrying after a
// transient failure cannot double-apply.
func (s *NegotiationService) Finalize(key string, p policy.Principal) (*FinalizationRecord, error) {
	if !policy.HasPermission(p.Role, policy.PermissionFinalizeNegotiation) {
		return nil, fmt.Errorf("%w: role %s may not finalize negotiations", ErrForbidden, p.Role)
	}

	var record *FinalizationRecord

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var request models.ProcurementRequest
		if err := tx.Where("key = ?", key).First(&request).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return persistence("finalize", err)
		}

		if !policy.CanAccess(p, request.Organization, request.Department) {
			return fmt.Errorf("%w: request %s is outside your scope", ErrForbidden, key)
		}

		var final models.Proposal
		if err := tx.Where("request_id = ? AND slot = ?", request.ID, models.SlotFinal).
			First(&final).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFinalNotSubmitted
			}
			return persistence("finalize", err)
		}

		var optimized float64
		if request.OptimizedCost != nil {
			optimized = *request.OptimizedCost
		}

		if request.FinalizedAt != nil {
			// Already finalized: return the committed record unchanged.
			record = &FinalizationRecord{
				RequestKey:    request.Key,
				LicenseCount:  final.LicenseCount,
				UnitCost:      final.UnitCost,
				TotalCost:     final.TotalCost,
				OptimizedCost: optimized,
				FinalizedAt:   *request.FinalizedAt,
			}
			return nil
		}

		now := time.Now()
		request.SetField(models.FieldLicenseCount, final.LicenseCount)
		request.SetField(models.FieldUnitCost, final.UnitCost)

		res := tx.Model(&models.ProcurementRequest{}).
			Where("id = ? AND finalized_at IS NULL", request.ID).
			Updates(map[string]interface{}{
				"fields":       request.Fields,
				"finalized_at": now,
			})
		if res.Error != nil {
			return persistence("finalize", res.Error)
		}
		if res.RowsAffected == 0 {
			// Concurrent finalize won; behave idempotently.
			if err := tx.Where("key = ?", key).First(&request).Error; err != nil {
				return persistence("finalize", err)
			}
			now = *request.FinalizedAt
		}

		record = &FinalizationRecord{
			RequestKey:    request.Key,
			LicenseCount:  final.LicenseCount,
			UnitCost:      final.UnitCost,
			TotalCost:     final.TotalCost,
			OptimizedCost: optimized,
			FinalizedAt:   now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}
