package services

import (
	"errors"
	"time"

	"annotation-review-api/models"

	"gorm.io/gorm"
)

// VisibilityService computes, per user, the subset of a project's items the
// user may list and act on. The filter is a pure set computation over a
// snapshot of the tracking records and is recomputed on every call; status
// and locks mutate continuously, so nothing here is cached.
type VisibilityService struct {
	db      *gorm.DB
	members *MemberService
	now     func() time.Time
	lockTTL time.Duration
}

// NewVisibilityService creates a visibility service bound to db.
func NewVisibilityService(db *gorm.DB, members *MemberService, lockTTL time.Duration) *VisibilityService {
	return &VisibilityService{
		db:      db,
		members: members,
		now:     time.Now,
		lockTTL: lockTTL,
	}
}

// VisibleItemIDs applies the role-scoped visibility rules to a snapshot.
//
// Elevated roles, and first tier reviewers for listing purposes, see every
// item. An annotator sees untracked items plus pending items plus their own
// rejected items, minus items locked by another unexpired holder, items
// annotated by someone else, and their own submitted or approved items.
// An unrecognized role sees nothing.
func VisibleItemIDs(role string, userID int, itemIDs []uint, records []models.TrackingRecord, now time.Time, lockTTL time.Duration) []uint {
	switch role {
	case models.RoleProjectAdmin, models.RoleProjectManager, models.RoleFirstTierReviewer:
		out := make([]uint, len(itemIDs))
		copy(out, itemIDs)
		return out
	case models.RoleAnnotator:
	default:
		return []uint{}
	}

	byItem := make(map[uint]*models.TrackingRecord, len(records))
	for i := range records {
		byItem[records[i].ItemID] = &records[i]
	}

	visible := make([]uint, 0, len(itemIDs))
	for _, id := range itemIDs {
		rec, tracked := byItem[id]
		if !tracked {
			visible = append(visible, id)
			continue
		}
		if rec.IsLockedByOther(userID, now, lockTTL) {
			continue
		}
		mine := rec.AnnotatedBy != nil && *rec.AnnotatedBy == userID
		if rec.AnnotatedBy != nil && !mine {
			continue
		}
		switch rec.Status {
		case models.StatusPending:
			visible = append(visible, id)
		case models.StatusRejected:
			if mine {
				visible = append(visible, id)
			}
		}
	}
	return visible
}

// ListVisibleItems loads the project snapshot and filters it for userID.
// A user who is not a project member gets an empty set, not an error, so
// item listings stay renderable.
func (s *VisibilityService) ListVisibleItems(projectID uint, userID int) ([]uint, error) {
	role, err := s.members.Role(projectID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []uint{}, nil
		}
		return nil, err
	}

	var itemIDs []uint
	if err := s.db.Model(&models.Item{}).
		Where("project_id = ? AND deleted_at IS NULL", projectID).
		Order("item_id ASC").
		Pluck("item_id", &itemIDs).Error; err != nil {
		return nil, err
	}

	var records []models.TrackingRecord
	if err := s.db.Where("project_id = ?", projectID).Find(&records).Error; err != nil {
		return nil, err
	}

	return VisibleItemIDs(role, userID, itemIDs, records, s.now(), s.lockTTL), nil
}
