package services

import (
	"math"

	"annotation-review-api/models"

	"gorm.io/gorm"
)

// ratePrecision is the number of decimal places kept on every displayed
// rate.
const ratePrecision = 2

// ProjectSummary aggregates a project's tracking state.
type ProjectSummary struct {
	ProjectID      uint    `json:"project_id"`
	TotalItems     int     `json:"total_items"`
	Pending        int     `json:"pending"`
	InProgress     int     `json:"in_progress"`
	Submitted      int     `json:"submitted"`
	Approved       int     `json:"approved"`
	Rejected       int     `json:"rejected"`
	CompletionRate float64 `json:"completion_rate"`
}

// AnnotatorStats aggregates one annotator's output within a project.
type AnnotatorStats struct {
	UserID      int     `json:"user_id"`
	Completed   int     `json:"completed"`
	Approved    int     `json:"approved"`
	Rejected    int     `json:"rejected"`
	SuccessRate float64 `json:"success_rate"`
}

// ReviewerStats aggregates one reviewer's decisions within a project.
type ReviewerStats struct {
	ReviewerID    int     `json:"reviewer_id"`
	Tier          string  `json:"tier"`
	TotalReviewed int     `json:"total_reviewed"`
	Approved      int     `json:"approved"`
	Rejected      int     `json:"rejected"`
	ApprovalRate  float64 `json:"approval_rate"`
}

// StatsService derives completion and reviewer metrics from the tracking
// and approval stores. Every rate tolerates a zero denominator by
// reporting 0, so dashboards render under partial data.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService creates a stats service bound to db.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// roundRate rounds to the fixed display precision.
func roundRate(value float64) float64 {
	factor := math.Pow(10, ratePrecision)
	return math.Round(value*factor) / factor
}

// safeRate divides with a zero-denominator guard and rounds.
func safeRate(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return roundRate(float64(numerator) / float64(denominator))
}

// BuildProjectSummary computes the summary from a snapshot. Items with no
// tracking record count as pending.
func BuildProjectSummary(projectID uint, totalItems int, records []models.TrackingRecord) ProjectSummary {
	summary := ProjectSummary{ProjectID: projectID, TotalItems: totalItems}
	explicitPending := 0
	for _, rec := range records {
		switch rec.Status {
		case models.StatusPending:
			explicitPending++
		case models.StatusInProgress:
			summary.InProgress++
		case models.StatusSubmitted:
			summary.Submitted++
		case models.StatusApproved:
			summary.Approved++
		case models.StatusRejected:
			summary.Rejected++
		}
	}
	summary.Pending = totalItems - len(records) + explicitPending
	if summary.Pending < 0 {
		summary.Pending = 0
	}
	summary.CompletionRate = safeRate(summary.Approved, totalItems)
	return summary
}

// BuildAnnotatorStats groups a snapshot by annotator. Completed counts
// records the annotator has pushed past in_progress; success rate is the
// approved share of completed work.
func BuildAnnotatorStats(records []models.TrackingRecord) []AnnotatorStats {
	byUser := make(map[int]*AnnotatorStats)
	order := make([]int, 0)
	for _, rec := range records {
		if rec.AnnotatedBy == nil {
			continue
		}
		userID := *rec.AnnotatedBy
		stats, ok := byUser[userID]
		if !ok {
			stats = &AnnotatorStats{UserID: userID}
			byUser[userID] = stats
			order = append(order, userID)
		}
		switch rec.Status {
		case models.StatusSubmitted:
			stats.Completed++
		case models.StatusApproved:
			stats.Completed++
			stats.Approved++
		case models.StatusRejected:
			stats.Completed++
			stats.Rejected++
		}
	}

	out := make([]AnnotatorStats, 0, len(order))
	for _, userID := range order {
		stats := byUser[userID]
		stats.SuccessRate = safeRate(stats.Approved, stats.Completed)
		out = append(out, *stats)
	}
	return out
}

// BuildReviewerStats groups approval records by reviewer. Each row counts a
// distinct item the reviewer has decided, whichever way their latest
// decision went.
func BuildReviewerStats(approvals []models.ApprovalRecord) []ReviewerStats {
	byReviewer := make(map[int]*ReviewerStats)
	order := make([]int, 0)
	for _, approval := range approvals {
		stats, ok := byReviewer[approval.ReviewerID]
		if !ok {
			stats = &ReviewerStats{ReviewerID: approval.ReviewerID, Tier: approval.Tier}
			byReviewer[approval.ReviewerID] = stats
			order = append(order, approval.ReviewerID)
		}
		switch approval.Status {
		case models.ApprovalApproved:
			stats.TotalReviewed++
			stats.Approved++
		case models.ApprovalRejected:
			stats.TotalReviewed++
			stats.Rejected++
		}
	}

	out := make([]ReviewerStats, 0, len(order))
	for _, reviewerID := range order {
		stats := byReviewer[reviewerID]
		stats.ApprovalRate = safeRate(stats.Approved, stats.TotalReviewed)
		out = append(out, *stats)
	}
	return out
}

// GetCompletionSummary loads the project snapshot and aggregates it.
func (s *StatsService) GetCompletionSummary(projectID uint) (*ProjectSummary, error) {
	var totalItems int64
	if err := s.db.Model(&models.Item{}).
		Where("project_id = ? AND deleted_at IS NULL", projectID).
		Count(&totalItems).Error; err != nil {
		return nil, err
	}

	var records []models.TrackingRecord
	if err := s.db.Where("project_id = ?", projectID).Find(&records).Error; err != nil {
		return nil, err
	}

	summary := BuildProjectSummary(projectID, int(totalItems), records)
	return &summary, nil
}

// GetAnnotatorStats returns per-annotator completion stats for a project.
func (s *StatsService) GetAnnotatorStats(projectID uint) ([]AnnotatorStats, error) {
	var records []models.TrackingRecord
	if err := s.db.Where("project_id = ? AND annotated_by IS NOT NULL", projectID).
		Order("tracking_id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return BuildAnnotatorStats(records), nil
}

// GetReviewerStats returns per-reviewer decision stats for a project.
func (s *StatsService) GetReviewerStats(projectID uint) ([]ReviewerStats, error) {
	var approvals []models.ApprovalRecord
	if err := s.db.Where("project_id = ?", projectID).
		Order("approval_id ASC").
		Find(&approvals).Error; err != nil {
		return nil, err
	}
	return BuildReviewerStats(approvals), nil
}

// CountFinalApprovals reports the number of distinct items carrying an
// approved final tier decision in the project.
func (s *StatsService) CountFinalApprovals(projectID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.ApprovalRecord{}).
		Where("project_id = ? AND tier = ? AND status = ?", projectID, models.TierFinal, models.ApprovalApproved).
		Distinct("item_id").
		Count(&count).Error
	return int(count), err
}
