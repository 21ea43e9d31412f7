package services

import (
	"errors"
	"strings"
	"time"

	"annotation-review-api/models"

	"gorm.io/gorm"
)

// ApprovalService enforces the two-tier review chain. Every decision
// creates or updates the reviewer's own ApprovalRecord and drives the
// tracking record transition inside the same transaction, so the approval
// row and the lifecycle status can never disagree.
type ApprovalService struct {
	tracking *TrackingService
	members  *MemberService
	notify   *NotificationService
}

// NewApprovalService creates an approval service. notify may be nil to
// disable rejection emails.
func NewApprovalService(tracking *TrackingService, members *MemberService, notify *NotificationService) *ApprovalService {
	return &ApprovalService{tracking: tracking, members: members, notify: notify}
}

// Approve records an approval decision by reviewerID.
//
// First tier reviewers follow the ordinary transition guard, so an item the
// annotator has never submitted is not eligible. Final tier reviewers
// additionally need a prior first tier approval on record. Project managers
// bypass both checks. Calling approve again flips the reviewer's earlier
// decision in place without touching any other tier's record.
func (s *ApprovalService) Approve(projectID, itemID uint, reviewerID int, notes string) (*models.TrackingRecord, error) {
	return s.decide(projectID, itemID, reviewerID, notes, models.ApprovalApproved)
}

// Reject records a rejection; notes are mandatory and non-blank.
func (s *ApprovalService) Reject(projectID, itemID uint, reviewerID int, notes string) (*models.TrackingRecord, error) {
	rec, err := s.decide(projectID, itemID, reviewerID, notes, models.ApprovalRejected)
	if err != nil {
		return nil, err
	}
	if s.notify != nil {
		s.notify.NotifyRejection(rec, notes)
	}
	return rec, nil
}

func (s *ApprovalService) decide(projectID, itemID uint, reviewerID int, notes, decision string) (*models.TrackingRecord, error) {
	return s.tracking.withRecord(projectID, itemID, func(tx *gorm.DB, rec *models.TrackingRecord) error {
		role, err := s.members.RoleOf(tx, projectID, reviewerID)
		if err != nil {
			return err
		}
		tier, ok := models.TierForRole(role)
		if !ok {
			return ErrPermissionDenied
		}

		if tier == models.TierFinal {
			firstApproved, err := s.hasFirstTierApproval(tx, itemID)
			if err != nil {
				return err
			}
			if !firstApproved {
				return ErrApprovalOrder
			}
		}

		now := s.tracking.now()
		bypass := tier == models.TierManager
		if decision == models.ApprovalApproved {
			if err := applyApprove(rec, reviewerID, notes, now, bypass); err != nil {
				return err
			}
		} else {
			if err := applyReject(rec, reviewerID, notes, now, bypass); err != nil {
				return err
			}
		}

		return s.upsertApproval(tx, projectID, itemID, reviewerID, tier, decision, notes, now)
	})
}

func (s *ApprovalService) hasFirstTierApproval(tx *gorm.DB, itemID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.ApprovalRecord{}).
		Where("item_id = ? AND tier = ? AND status = ?", itemID, models.TierFirst, models.ApprovalApproved).
		Count(&count).Error
	return count > 0, err
}

// upsertApproval creates or updates the reviewer's single record for the
// item. A reviewer holds at most one record per item; other tiers' records
// are never touched.
func (s *ApprovalService) upsertApproval(tx *gorm.DB, projectID, itemID uint, reviewerID int, tier, decision, notes string, now time.Time) error {
	var notesPtr *string
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		notesPtr = &trimmed
	}

	var approval models.ApprovalRecord
	err := tx.Where("item_id = ? AND reviewer_id = ?", itemID, reviewerID).First(&approval).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		approval = models.ApprovalRecord{
			ProjectID:   projectID,
			ItemID:      itemID,
			ReviewerID:  reviewerID,
			Tier:        tier,
			Status:      decision,
			ReviewNotes: notesPtr,
			ReviewedAt:  &now,
			CreatedAt:   now,
		}
		if err := approval.Validate(); err != nil {
			return err
		}
		return tx.Create(&approval).Error
	}
	if err != nil {
		return err
	}

	approval.Tier = tier
	approval.Status = decision
	approval.ReviewNotes = notesPtr
	approval.ReviewedAt = &now
	approval.UpdatedAt = &now
	if err := approval.Validate(); err != nil {
		return err
	}
	return tx.Save(&approval).Error
}
