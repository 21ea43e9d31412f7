package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"annotation-review-api/models"
)

func approvalCountStep(count int64) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("(?i)SELECT count\\(\\*\\) FROM `approval_records`"),
		columns: []string{"count"},
		rows:    [][]driver.Value{{count}},
	}
}

func approvalSelectStep(rows [][]driver.Value) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("(?i)SELECT .* FROM `approval_records` WHERE item_id"),
		columns: []string{"approval_id", "project_id", "item_id", "reviewer_id", "tier", "status", "review_notes", "reviewed_at", "created_at", "updated_at"},
		rows:    rows,
	}
}

func newApprovalHarness(t *testing.T, now time.Time, steps []*queryStep) (*ApprovalService, *scriptedDB, func()) {
	t.Helper()
	db, state, cleanup := newScriptedGormDB(t, steps)
	tracking := NewTrackingService(db)
	tracking.now = fixedClock(now)
	svc := NewApprovalService(tracking, NewMemberService(db), nil)
	return svc, state, cleanup
}

func TestFirstTierApproveSubmittedItem(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusSubmitted, int64(7), now.Add(-time.Hour), nil, nil, now.Add(-2*time.Hour)),
		}),
		memberSelectStep(3, 1, 11, models.RoleFirstTierReviewer, now.Add(-time.Hour)),
		approvalSelectStep(nil), // no prior record, create one
		execStep("(?i)INSERT INTO `approval_records`"),
		execStep("(?i)UPDATE `tracking_records` SET"),
	}

	svc, state, cleanup := newApprovalHarness(t, now, steps)
	defer cleanup()

	rec, err := svc.Approve(1, 42, 11, "looks good")
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if rec.Status != models.StatusApproved {
		t.Fatalf("expected status approved, got %s", rec.Status)
	}
	if rec.ReviewedBy == nil || *rec.ReviewedBy != 11 {
		t.Fatalf("expected reviewed_by 11, got %v", rec.ReviewedBy)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestFirstTierApprovePendingItemFails(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep(nil), // item never touched
		execStep("(?i)INSERT INTO `tracking_records`"),
		memberSelectStep(3, 1, 11, models.RoleFirstTierReviewer, now.Add(-time.Hour)),
	}

	svc, state, cleanup := newApprovalHarness(t, now, steps)
	defer cleanup()

	_, err := svc.Approve(1, 42, 11, "")
	if !IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestFinalTierNeedsFirstTierApproval(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusSubmitted, int64(7), now.Add(-time.Hour), nil, nil, now.Add(-2*time.Hour)),
		}),
		memberSelectStep(4, 1, 20, models.RoleProjectAdmin, now.Add(-time.Hour)),
		approvalCountStep(0), // no first tier approval on record
	}

	svc, state, cleanup := newApprovalHarness(t, now, steps)
	defer cleanup()

	_, err := svc.Approve(1, 42, 20, "final")
	if !errors.Is(err, ErrApprovalOrder) {
		t.Fatalf("expected ErrApprovalOrder, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestFinalTierApproveAfterFirstTier(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusSubmitted, int64(7), now.Add(-time.Hour), nil, nil, now.Add(-2*time.Hour)),
		}),
		memberSelectStep(4, 1, 20, models.RoleProjectAdmin, now.Add(-time.Hour)),
		approvalCountStep(1),
		approvalSelectStep(nil),
		execStep("(?i)INSERT INTO `approval_records`"),
		execStep("(?i)UPDATE `tracking_records` SET"),
	}

	svc, state, cleanup := newApprovalHarness(t, now, steps)
	defer cleanup()

	rec, err := svc.Approve(1, 42, 20, "final sign-off")
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if rec.Status != models.StatusApproved {
		t.Fatalf("expected status approved, got %s", rec.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestRejectRequiresNotes(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusSubmitted, int64(7), now.Add(-time.Hour), nil, nil, now.Add(-2*time.Hour)),
		}),
		memberSelectStep(3, 1, 11, models.RoleFirstTierReviewer, now.Add(-time.Hour)),
	}

	svc, state, cleanup := newApprovalHarness(t, now, steps)
	defer cleanup()

	_, err := svc.Reject(1, 42, 11, "   ")
	if !errors.Is(err, ErrEmptyNotes) {
		t.Fatalf("expected ErrEmptyNotes, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestAnnotatorMayNotReview(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusSubmitted, int64(7), now.Add(-time.Hour), nil, nil, now.Add(-2*time.Hour)),
		}),
		memberSelectStep(3, 1, 7, models.RoleAnnotator, now.Add(-time.Hour)),
	}

	svc, state, cleanup := newApprovalHarness(t, now, steps)
	defer cleanup()

	_, err := svc.Approve(1, 42, 7, "self approve")
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestManagerBypassesOrderingAndStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	steps := []*queryStep{
		itemExistsStep(1, 42),
		// Manager approves an item still in progress: no order check, no
		// transition guard.
		trackingSelectForUpdateStep([][]driver.Value{
			trackingRow(5, 1, 42, models.StatusInProgress, int64(7), nil, nil, nil, now.Add(-2*time.Hour)),
		}),
		memberSelectStep(6, 1, 30, models.RoleProjectManager, now.Add(-time.Hour)),
		approvalSelectStep(nil),
		execStep("(?i)INSERT INTO `approval_records`"),
		execStep("(?i)UPDATE `tracking_records` SET"),
	}

	svc, state, cleanup := newApprovalHarness(t, now, steps)
	defer cleanup()

	rec, err := svc.Approve(1, 42, 30, "manager override")
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if rec.Status != models.StatusApproved {
		t.Fatalf("expected status approved, got %s", rec.Status)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}
