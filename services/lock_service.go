package services

import (
	"time"

	"annotation-review-api/models"

	"gorm.io/gorm"
)

// LockInfo is the snapshot returned to a successful lock acquirer.
type LockInfo struct {
	ProjectID uint      `json:"project_id"`
	ItemID    uint      `json:"item_id"`
	LockedBy  int       `json:"locked_by"`
	LockedAt  time.Time `json:"locked_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LockService hands out the soft per-item edit lock. The lock is a pair of
// columns on the tracking record, expiry is evaluated at read time, and
// there is no background sweep: a stale lock is simply free for the next
// caller.
type LockService struct {
	tracking *TrackingService
	members  *MemberService
}

// NewLockService creates a lock service sharing the tracking service's
// transaction discipline.
func NewLockService(tracking *TrackingService, members *MemberService) *LockService {
	return &LockService{tracking: tracking, members: members}
}

// Acquire grants the item lock to userID. It succeeds when the lock is
// free, already held by userID (refresh), or held by someone else but
// expired. An unexpired foreign hold fails with LockConflictError.
func (s *LockService) Acquire(projectID, itemID uint, userID int) (*LockInfo, error) {
	var info LockInfo
	_, err := s.tracking.withRecord(projectID, itemID, func(tx *gorm.DB, rec *models.TrackingRecord) error {
		now := s.tracking.now()
		if rec.IsLockedByOther(userID, now, s.tracking.lockTTL) {
			return &LockConflictError{HeldBy: *rec.LockedBy, HeldSince: *rec.LockedAt}
		}
		rec.LockedBy = &userID
		rec.LockedAt = &now
		info = LockInfo{
			ProjectID: projectID,
			ItemID:    itemID,
			LockedBy:  userID,
			LockedAt:  now,
			ExpiresAt: now.Add(s.tracking.lockTTL),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Release clears the lock. Only the holder, or a member with an elevated
// project role, may release someone else's hold.
func (s *LockService) Release(projectID, itemID uint, userID int) error {
	_, err := s.tracking.withRecord(projectID, itemID, func(tx *gorm.DB, rec *models.TrackingRecord) error {
		if rec.LockedBy == nil {
			return nil
		}
		if *rec.LockedBy != userID {
			role, err := s.members.RoleOf(tx, projectID, userID)
			if err != nil {
				return err
			}
			if !models.IsElevated(role) {
				return ErrPermissionDenied
			}
		}
		rec.ClearLock()
		return nil
	})
	return err
}
