package services

import (
	"testing"

	"annotation-review-api/models"
)

func TestBuildProjectSummaryCountsVirtualPending(t *testing.T) {
	records := []models.TrackingRecord{
		{ItemID: 1, Status: models.StatusApproved},
		{ItemID: 2, Status: models.StatusApproved},
		{ItemID: 3, Status: models.StatusApproved},
		{ItemID: 4, Status: models.StatusRejected},
		{ItemID: 5, Status: models.StatusRejected},
		{ItemID: 6, Status: models.StatusSubmitted},
	}

	summary := BuildProjectSummary(1, 10, records)

	if summary.Pending != 4 {
		t.Errorf("expected 4 pending (10 items - 6 tracked + 0 explicit), got %d", summary.Pending)
	}
	if summary.Approved != 3 || summary.Rejected != 2 || summary.Submitted != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	if summary.CompletionRate != 0.3 {
		t.Errorf("expected completion rate 0.3, got %v", summary.CompletionRate)
	}
}

func TestBuildProjectSummaryExplicitPending(t *testing.T) {
	records := []models.TrackingRecord{
		{ItemID: 1, Status: models.StatusPending},
		{ItemID: 2, Status: models.StatusInProgress},
	}

	summary := BuildProjectSummary(1, 5, records)

	// 5 - 2 tracked + 1 explicit pending record.
	if summary.Pending != 4 {
		t.Errorf("expected 4 pending, got %d", summary.Pending)
	}
	if summary.InProgress != 1 {
		t.Errorf("expected 1 in progress, got %d", summary.InProgress)
	}
}

func TestBuildProjectSummaryEmptyProject(t *testing.T) {
	summary := BuildProjectSummary(1, 0, nil)
	if summary.CompletionRate != 0 {
		t.Errorf("zero denominator must yield 0 rate, got %v", summary.CompletionRate)
	}
}

func TestBuildAnnotatorStats(t *testing.T) {
	a, b := 7, 9
	records := []models.TrackingRecord{
		{ItemID: 1, Status: models.StatusApproved, AnnotatedBy: &a},
		{ItemID: 2, Status: models.StatusRejected, AnnotatedBy: &a},
		{ItemID: 3, Status: models.StatusSubmitted, AnnotatedBy: &a},
		{ItemID: 4, Status: models.StatusInProgress, AnnotatedBy: &a}, // not completed
		{ItemID: 5, Status: models.StatusApproved, AnnotatedBy: &b},
	}

	stats := BuildAnnotatorStats(records)
	if len(stats) != 2 {
		t.Fatalf("expected 2 annotators, got %d", len(stats))
	}

	first := stats[0]
	if first.UserID != 7 || first.Completed != 3 || first.Approved != 1 {
		t.Errorf("unexpected stats for annotator 7: %+v", first)
	}
	if first.SuccessRate != 0.33 {
		t.Errorf("expected success rate 0.33, got %v", first.SuccessRate)
	}

	second := stats[1]
	if second.UserID != 9 || second.SuccessRate != 1 {
		t.Errorf("unexpected stats for annotator 9: %+v", second)
	}
}

func TestBuildAnnotatorStatsZeroCompleted(t *testing.T) {
	a := 7
	records := []models.TrackingRecord{
		{ItemID: 1, Status: models.StatusInProgress, AnnotatedBy: &a},
	}
	stats := BuildAnnotatorStats(records)
	if len(stats) != 1 || stats[0].SuccessRate != 0 {
		t.Fatalf("zero completed must yield 0 rate, got %+v", stats)
	}
}

func TestBuildReviewerStats(t *testing.T) {
	approvals := []models.ApprovalRecord{
		{ItemID: 1, ReviewerID: 11, Tier: models.TierFirst, Status: models.ApprovalApproved},
		{ItemID: 2, ReviewerID: 11, Tier: models.TierFirst, Status: models.ApprovalApproved},
		{ItemID: 3, ReviewerID: 11, Tier: models.TierFirst, Status: models.ApprovalRejected},
		{ItemID: 1, ReviewerID: 20, Tier: models.TierFinal, Status: models.ApprovalApproved},
		{ItemID: 4, ReviewerID: 20, Tier: models.TierFinal, Status: models.ApprovalPending}, // undecided, not counted
	}

	stats := BuildReviewerStats(approvals)
	if len(stats) != 2 {
		t.Fatalf("expected 2 reviewers, got %d", len(stats))
	}

	first := stats[0]
	if first.ReviewerID != 11 || first.TotalReviewed != 3 || first.ApprovalRate != 0.67 {
		t.Errorf("unexpected stats for reviewer 11: %+v", first)
	}

	final := stats[1]
	if final.ReviewerID != 20 || final.Tier != models.TierFinal || final.TotalReviewed != 1 {
		t.Errorf("unexpected stats for reviewer 20: %+v", final)
	}
}
