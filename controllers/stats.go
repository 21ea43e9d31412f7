package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetCompletionSummary returns project-level completion counts and rate.
// Missing data degrades to zero counts so dashboards always render.
func GetCompletionSummary(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	summary, err := statsSvc.GetCompletionSummary(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	finalApprovals, err := statsSvc.CountFinalApprovals(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":         summary,
		"final_approvals": finalApprovals,
	})
}

// GetAnnotatorStats returns per-annotator completion and success rates.
func GetAnnotatorStats(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	stats, err := statsSvc.GetAnnotatorStats(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"annotators": stats,
		"total":      len(stats),
	})
}

// GetReviewerStats returns per-reviewer decision counts and approval rates.
func GetReviewerStats(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	stats, err := statsSvc.GetReviewerStats(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviewers": stats,
		"total":     len(stats),
	})
}
