package controllers

import (
	"net/http"
	"time"

	"annotation-review-api/config"
	"annotation-review-api/models"

	"github.com/gin-gonic/gin"
)

// GetItem returns one item's metadata.
func GetItem(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var item models.Item
	if err := config.DB.Where("project_id = ? AND item_id = ? AND deleted_at IS NULL", projectID, itemID).
		First(&item).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateItem registers an annotatable item in the project.
func CreateItem(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		Text          *string  `json:"text"`
		AudioPath     *string  `json:"audio_path"`
		AudioDuration *float64 `json:"audio_duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Text == nil && req.AudioPath == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item needs text or audio"})
		return
	}

	item := models.Item{
		ProjectID:     projectID,
		Text:          req.Text,
		AudioPath:     req.AudioPath,
		AudioDuration: req.AudioDuration,
		CreatedAt:     time.Now(),
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// DeleteItem soft-deletes an item; its tracking history is kept.
func DeleteItem(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.Item{}).
		Where("project_id = ? AND item_id = ? AND deleted_at IS NULL", projectID, itemID).
		Update("deleted_at", &now)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// GetLabelTypes lists a project's label taxonomy.
func GetLabelTypes(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	var labels []models.LabelType
	if err := config.DB.Where("project_id = ? AND is_active = ?", projectID, true).
		Order("display_order ASC, label_type_id ASC").
		Find(&labels).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch label types"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"label_types": labels, "total": len(labels)})
}

// CreateLabelType adds a label to the project taxonomy.
func CreateLabelType(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		LabelName    string  `json:"label_name" binding:"required"`
		Color        *string `json:"color"`
		DisplayOrder int     `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	label := models.LabelType{
		ProjectID:    projectID,
		LabelName:    req.LabelName,
		Color:        req.Color,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := config.DB.Create(&label).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create label type"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"label_type": label})
}
