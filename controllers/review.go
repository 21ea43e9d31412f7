package controllers

import (
	"net/http"

	"annotation-review-api/config"
	"annotation-review-api/middleware"
	"annotation-review-api/models"

	"github.com/gin-gonic/gin"
)

type reviewRequest struct {
	Notes string `json:"notes"`
}

// ApproveItem records an approval by the calling reviewer and advances the
// tracking record.
func ApproveItem(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User context missing"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rec, err := approvalSvc.Approve(projectID, itemID, userID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracking": rec})
}

// RejectItem records a rejection; notes are mandatory.
func RejectItem(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User context missing"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	rec, err := approvalSvc.Reject(projectID, itemID, userID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracking": rec})
}

// ListItemApprovals returns every tier's approval record for an item.
func ListItemApprovals(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var approvals []models.ApprovalRecord
	if err := config.DB.Preload("Reviewer").
		Where("project_id = ? AND item_id = ?", projectID, itemID).
		Order("approval_id ASC").
		Find(&approvals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch approvals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"approvals": approvals,
		"total":     len(approvals),
	})
}
