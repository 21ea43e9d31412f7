package controllers

import (
	"net/http"
	"time"

	"annotation-review-api/config"
	"annotation-review-api/middleware"
	"annotation-review-api/models"
	"annotation-review-api/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetProjects lists projects the caller belongs to.
func GetProjects(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var projects []models.Project
	if err := config.DB.
		Joins("JOIN project_members pm ON pm.project_id = projects.project_id").
		Where("pm.user_id = ? AND projects.deleted_at IS NULL", userID).
		Order("projects.project_id ASC").
		Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects, "total": len(projects)})
}

// GetProject returns one project with members and label types.
func GetProject(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	var project models.Project
	if err := config.DB.Preload("Members.User").Preload("LabelTypes").
		Where("project_id = ? AND deleted_at IS NULL", projectID).
		First(&project).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// CreateProject creates a project; the creator becomes its admin.
func CreateProject(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req struct {
		ProjectName string  `json:"project_name" binding:"required"`
		ProjectCode string  `json:"project_code" binding:"required"`
		Description *string `json:"description"`
		MediaType   string  `json:"media_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := models.Project{
		ProjectName: utils.SanitizeInput(req.ProjectName),
		ProjectCode: utils.SanitizeInput(req.ProjectCode),
		Description: req.Description,
		MediaType:   req.MediaType,
		CreatedBy:   &userID,
		CreatedAt:   time.Now(),
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ProjectID,
			UserID:    userID,
			Role:      models.RoleProjectAdmin,
			CreatedAt: time.Now(),
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjectMembers lists a project's members and roles.
func GetProjectMembers(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	members, err := memberSvc.List(projectID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members, "total": len(members)})
}

// AddProjectMember adds or re-roles a user in the project.
func AddProjectMember(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		UserID int    `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", req.UserID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	var member models.ProjectMember
	err := config.DB.Where("project_id = ? AND user_id = ?", projectID, req.UserID).First(&member).Error
	if err != nil {
		member = models.ProjectMember{
			ProjectID: projectID,
			UserID:    req.UserID,
			Role:      req.Role,
			CreatedAt: now,
		}
		if err := config.DB.Create(&member).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
			return
		}
	} else {
		member.Role = req.Role
		member.UpdatedAt = &now
		if err := config.DB.Save(&member).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"member": member})
}

// RemoveProjectMember drops a user from the project.
func RemoveProjectMember(c *gin.Context) {
	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "member_id")
	if !ok {
		return
	}

	result := config.DB.Where("project_id = ? AND member_id = ?", projectID, memberID).
		Delete(&models.ProjectMember{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}
