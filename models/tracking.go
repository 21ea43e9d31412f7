package models

import "time"

// Tracking statuses. An item with no tracking record is implicitly pending.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// TrackingRecord represents the tracking_records table: the authoritative
// lifecycle state for one item within one project. Exactly one record exists
// per (project_id, item_id); it is created lazily on the first annotator or
// reviewer action and never deleted.
type TrackingRecord struct {
	TrackingID  uint       `gorm:"primaryKey;column:tracking_id" json:"tracking_id"`
	ProjectID   uint       `gorm:"column:project_id;uniqueIndex:idx_tracking_project_item;index:idx_tracking_project_status" json:"project_id"`
	ItemID      uint       `gorm:"column:item_id;uniqueIndex:idx_tracking_project_item" json:"item_id"`
	Status      string     `gorm:"column:status;index:idx_tracking_project_status" json:"status"`
	AnnotatedBy *int       `gorm:"column:annotated_by;index" json:"annotated_by"`
	AnnotatedAt *time.Time `gorm:"column:annotated_at" json:"annotated_at"`
	ReviewedBy  *int       `gorm:"column:reviewed_by;index" json:"reviewed_by"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`
	ReviewNotes *string    `gorm:"column:review_notes" json:"review_notes"`
	LockedBy    *int       `gorm:"column:locked_by" json:"locked_by"`
	LockedAt    *time.Time `gorm:"column:locked_at" json:"locked_at"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name for TrackingRecord
func (TrackingRecord) TableName() string {
	return "tracking_records"
}

// CanStart reports whether the annotation may move to in_progress.
func CanStart(status string) bool {
	return status == StatusPending || status == StatusInProgress
}

// CanSubmit reports whether the annotation may move to submitted.
// Everything except an already-approved item may be (re)submitted; the
// rejected -> submitted edge is the annotator's resubmission path.
func CanSubmit(status string) bool {
	return status != StatusApproved
}

// CanApprove reports whether a review may move the record to approved.
func CanApprove(status string) bool {
	return status == StatusSubmitted || status == StatusRejected
}

// CanReject reports whether a review may move the record to rejected.
func CanReject(status string) bool {
	return status == StatusSubmitted || status == StatusApproved
}

// ApproveSources and RejectSources name the allowed source statuses for
// error messages.
var (
	ApproveSources = []string{StatusSubmitted, StatusRejected}
	RejectSources  = []string{StatusSubmitted, StatusApproved}
)

// IsLocked reports whether the record carries an unexpired lock as of now.
func (t *TrackingRecord) IsLocked(now time.Time, ttl time.Duration) bool {
	if t.LockedBy == nil || t.LockedAt == nil {
		return false
	}
	return now.Sub(*t.LockedAt) < ttl
}

// IsLockedByOther reports whether someone other than userID holds an
// unexpired lock on the record.
func (t *TrackingRecord) IsLockedByOther(userID int, now time.Time, ttl time.Duration) bool {
	return t.IsLocked(now, ttl) && *t.LockedBy != userID
}

// ClearLock drops the lock fields in place.
func (t *TrackingRecord) ClearLock() {
	t.LockedBy = nil
	t.LockedAt = nil
}
