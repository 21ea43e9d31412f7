package services

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"annotation-review-api/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLockTTL is the canonical lock expiry window. Override with
// LOCK_TTL_MINUTES.
const DefaultLockTTL = 15 * time.Minute

// storageRetries bounds retry attempts on transient row-lock contention
// before surfacing ErrUnavailable.
const storageRetries = 3

// TrackingService owns the per-item lifecycle records and serializes every
// mutation of one record through a row-locking transaction.
type TrackingService struct {
	db      *gorm.DB
	now     func() time.Time
	lockTTL time.Duration
}

// NewTrackingService creates a tracking service bound to db.
func NewTrackingService(db *gorm.DB) *TrackingService {
	return &TrackingService{
		db:      db,
		now:     time.Now,
		lockTTL: lockTTLFromEnv(),
	}
}

func lockTTLFromEnv() time.Duration {
	if raw := os.Getenv("LOCK_TTL_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return DefaultLockTTL
}

// LockTTL returns the configured lock expiry window.
func (s *TrackingService) LockTTL() time.Duration {
	return s.lockTTL
}

// itemExists confirms the item belongs to the project.
func (s *TrackingService) itemExists(db *gorm.DB, projectID, itemID uint) error {
	var count int64
	if err := db.Model(&models.Item{}).
		Where("project_id = ? AND item_id = ? AND deleted_at IS NULL", projectID, itemID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// withRecord runs fn against the tracking record for (projectID, itemID)
// inside a single transaction, holding a row lock so concurrent mutations of
// the same item serialize. The record is created with status pending if it
// does not exist yet, and a stale soft lock is cleared before fn sees the
// record. Transient lock-wait failures are retried a bounded number of
// times.
func (s *TrackingService) withRecord(projectID, itemID uint, fn func(tx *gorm.DB, rec *models.TrackingRecord) error) (*models.TrackingRecord, error) {
	var rec models.TrackingRecord

	attempt := func() error {
		return s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.itemExists(tx, projectID, itemID); err != nil {
				return err
			}

			rec = models.TrackingRecord{}
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("project_id = ? AND item_id = ?", projectID, itemID).
				First(&rec).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				rec = models.TrackingRecord{
					ProjectID: projectID,
					ItemID:    itemID,
					Status:    models.StatusPending,
					CreatedAt: s.now(),
				}
				if err := tx.Create(&rec).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			if rec.LockedBy != nil && !rec.IsLocked(s.now(), s.lockTTL) {
				rec.ClearLock()
			}

			if err := fn(tx, &rec); err != nil {
				return err
			}

			now := s.now()
			rec.UpdatedAt = &now
			return tx.Save(&rec).Error
		})
	}

	var err error
	for i := 0; i < storageRetries; i++ {
		if err = attempt(); err == nil {
			return &rec, nil
		}
		if !isTransient(err) {
			return nil, err
		}
	}
	return nil, ErrUnavailable
}

// isTransient recognizes MySQL lock-wait timeout (1205) and deadlock (1213)
// errors worth retrying.
func isTransient(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1205 || myErr.Number == 1213
	}
	return false
}

// Get returns the current tracking snapshot for an item. An item with no
// record reports a virtual pending snapshot without creating one. A stale
// lock observed here is cleared as a side effect.
func (s *TrackingService) Get(projectID, itemID uint) (*models.TrackingRecord, error) {
	if err := s.itemExists(s.db, projectID, itemID); err != nil {
		return nil, err
	}

	var rec models.TrackingRecord
	err := s.db.Where("project_id = ? AND item_id = ?", projectID, itemID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.TrackingRecord{
			ProjectID: projectID,
			ItemID:    itemID,
			Status:    models.StatusPending,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if rec.LockedBy != nil && !rec.IsLocked(s.now(), s.lockTTL) {
		rec.ClearLock()
		if err := s.db.Model(&models.TrackingRecord{}).
			Where("tracking_id = ?", rec.TrackingID).
			Updates(map[string]interface{}{"locked_by": nil, "locked_at": nil}).Error; err != nil {
			return nil, err
		}
	}
	return &rec, nil
}

// Start moves an item into in_progress on behalf of the annotator.
func (s *TrackingService) Start(projectID, itemID uint, userID int) (*models.TrackingRecord, error) {
	return s.withRecord(projectID, itemID, func(tx *gorm.DB, rec *models.TrackingRecord) error {
		if !models.CanStart(rec.Status) {
			return &InvalidTransitionError{
				Action:  "start",
				Current: rec.Status,
				Allowed: []string{models.StatusPending, models.StatusInProgress},
			}
		}
		if rec.IsLockedByOther(userID, s.now(), s.lockTTL) {
			return &LockConflictError{HeldBy: *rec.LockedBy, HeldSince: *rec.LockedAt}
		}
		rec.Status = models.StatusInProgress
		rec.AnnotatedBy = &userID
		return nil
	})
}

// Submit records the annotator's finished work. Any status except approved
// may be (re)submitted; a repeat submit by the same user is a no-op success.
// The submitter's own lock is released.
func (s *TrackingService) Submit(projectID, itemID uint, userID int) (*models.TrackingRecord, error) {
	return s.withRecord(projectID, itemID, func(tx *gorm.DB, rec *models.TrackingRecord) error {
		if !models.CanSubmit(rec.Status) {
			return &InvalidTransitionError{
				Action:  "submit",
				Current: rec.Status,
				Allowed: []string{models.StatusPending, models.StatusInProgress, models.StatusSubmitted, models.StatusRejected},
			}
		}
		if rec.Status == models.StatusSubmitted && rec.AnnotatedBy != nil && *rec.AnnotatedBy == userID {
			// Repeat submit by the same annotator: keep original timestamp.
			if rec.LockedBy != nil && *rec.LockedBy == userID {
				rec.ClearLock()
			}
			return nil
		}
		if rec.IsLockedByOther(userID, s.now(), s.lockTTL) {
			return &LockConflictError{HeldBy: *rec.LockedBy, HeldSince: *rec.LockedAt}
		}
		now := s.now()
		rec.Status = models.StatusSubmitted
		rec.AnnotatedBy = &userID
		rec.AnnotatedAt = &now
		if rec.LockedBy != nil && *rec.LockedBy == userID {
			rec.ClearLock()
		}
		return nil
	})
}

// applyApprove performs the approved transition on a row already held by the
// caller's transaction. bypass skips the source-status check (manager tier).
func applyApprove(rec *models.TrackingRecord, reviewerID int, notes string, now time.Time, bypass bool) error {
	if !bypass && !models.CanApprove(rec.Status) {
		return &InvalidTransitionError{
			Action:  "approve",
			Current: rec.Status,
			Allowed: models.ApproveSources,
		}
	}
	rec.Status = models.StatusApproved
	rec.ReviewedBy = &reviewerID
	rec.ReviewedAt = &now
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		rec.ReviewNotes = &trimmed
	} else {
		rec.ReviewNotes = nil
	}
	return nil
}

// applyReject performs the rejected transition; notes are mandatory.
func applyReject(rec *models.TrackingRecord, reviewerID int, notes string, now time.Time, bypass bool) error {
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return ErrEmptyNotes
	}
	if !bypass && !models.CanReject(rec.Status) {
		return &InvalidTransitionError{
			Action:  "reject",
			Current: rec.Status,
			Allowed: models.RejectSources,
		}
	}
	rec.Status = models.StatusRejected
	rec.ReviewedBy = &reviewerID
	rec.ReviewedAt = &now
	rec.ReviewNotes = &trimmed
	return nil
}
