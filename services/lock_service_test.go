package services

import (
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"annotation-review-api/models"
)

func TestAcquireFreeLock(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusPending, nil, nil, nil, nil, now.Add(-time.Hour)),
		}),
		execStep("(?i)UPDATE `tracking_records` SET"),
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	tracking := NewTrackingService(db)
	tracking.now = fixedClock(now)
	locks := NewLockService(tracking, NewMemberService(db))

	info, err := locks.Acquire(1, 42, 7)
	if err != nil {
		t.Fatalf("Acquire returned error: %v", err)
	}
	if info.LockedBy != 7 {
		t.Fatalf("expected lock holder 7, got %d", info.LockedBy)
	}
	if !info.ExpiresAt.Equal(now.Add(tracking.LockTTL())) {
		t.Fatalf("unexpected expiry %v", info.ExpiresAt)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAcquireHeldLockConflicts(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	heldSince := now.Add(-time.Minute)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusInProgress, int64(9), nil, int64(9), heldSince, now.Add(-time.Hour)),
		}),
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	tracking := NewTrackingService(db)
	tracking.now = fixedClock(now)
	locks := NewLockService(tracking, NewMemberService(db))

	_, err := locks.Acquire(1, 42, 7)
	var conflict *LockConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected LockConflictError, got %v", err)
	}
	if conflict.HeldBy != 9 || !conflict.HeldSince.Equal(heldSince) {
		t.Fatalf("unexpected conflict detail: %+v", conflict)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAcquireExpiredLockSucceeds(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	staleSince := now.Add(-DefaultLockTTL - time.Minute)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusInProgress, int64(9), nil, int64(9), staleSince, now.Add(-time.Hour)),
		}),
		execStep("(?i)UPDATE `tracking_records` SET"),
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	tracking := NewTrackingService(db)
	tracking.now = fixedClock(now)
	locks := NewLockService(tracking, NewMemberService(db))

	info, err := locks.Acquire(1, 42, 7)
	if err != nil {
		t.Fatalf("expected stale lock to be treated as free, got %v", err)
	}
	if info.LockedBy != 7 {
		t.Fatalf("expected new holder 7, got %d", info.LockedBy)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestReleaseByNonHolderRequiresElevatedRole(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusInProgress, int64(9), nil, int64(9), now.Add(-time.Minute), now.Add(-time.Hour)),
		}),
		// Member lookup for the non-holder caller: an annotator may not
		// force a release.
		memberSelectStep(3, 1, 7, models.RoleAnnotator, now.Add(-time.Hour)),
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	tracking := NewTrackingService(db)
	tracking.now = fixedClock(now)
	locks := NewLockService(tracking, NewMemberService(db))

	if err := locks.Release(1, 42, 7); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
