package models

import (
	"errors"
	"time"
)

// Approval statuses for ApprovalRecord rows.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Review tiers recorded on an ApprovalRecord. The tier is derived from the
// reviewer's project role at decision time.
const (
	TierFirst   = "first_tier"
	TierFinal   = "final_tier"
	TierManager = "manager"
)

// ApprovalRecord represents the approval_records table: one decision per
// (item, reviewer), updated in place when a reviewer flips their decision.
// Multiple reviewers each hold an independent record for the same item.
type ApprovalRecord struct {
	ApprovalID  uint       `gorm:"primaryKey;column:approval_id" json:"approval_id"`
	ProjectID   uint       `gorm:"column:project_id;index" json:"project_id"`
	ItemID      uint       `gorm:"column:item_id;uniqueIndex:idx_approval_item_reviewer" json:"item_id"`
	ReviewerID  int        `gorm:"column:reviewer_id;uniqueIndex:idx_approval_item_reviewer;index" json:"reviewer_id"`
	Tier        string     `gorm:"column:tier" json:"tier"`
	Status      string     `gorm:"column:status;index" json:"status"`
	ReviewNotes *string    `gorm:"column:review_notes" json:"review_notes"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for ApprovalRecord.
func (ApprovalRecord) TableName() string {
	return "approval_records"
}

// Validate checks the record before persisting.
func (a *ApprovalRecord) Validate() error {
	if a.ItemID == 0 {
		return errors.New("item ID is required")
	}
	if a.ReviewerID == 0 {
		return errors.New("reviewer ID is required")
	}
	switch a.Status {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
	default:
		return errors.New("invalid approval status")
	}
	return nil
}

// TierForRole maps a project member role to its review tier; ok is false
// for roles that may not review.
func TierForRole(role string) (string, bool) {
	switch role {
	case RoleFirstTierReviewer:
		return TierFirst, true
	case RoleProjectAdmin:
		return TierFinal, true
	case RoleProjectManager:
		return TierManager, true
	}
	return "", false
}
