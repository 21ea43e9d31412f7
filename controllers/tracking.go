package controllers

import (
	"net/http"

	"annotation-review-api/middleware"

	"github.com/gin-gonic/gin"
)

// GetTracking returns the lifecycle snapshot for one item. An item nobody
// has touched reports a virtual pending status.
func GetTracking(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	rec, err := trackingSvc.Get(projectID, itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracking": rec})
}

// StartAnnotation marks an item as being worked on by the caller.
func StartAnnotation(c *gin.Context) {
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

	rec, err := trackingSvc.Start(projectID, itemID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracking": rec})
}

// SubmitAnnotation records the caller's finished annotation and releases
// their lock on the item.
func SubmitAnnotation(c *gin.Context) {
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

	rec, err := trackingSvc.Submit(projectID, itemID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tracking": rec})
}

// AcquireLock grants the caller the soft edit lock on an item.
func AcquireLock(c *gin.Context) {
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

	info, err := lockSvc.Acquire(projectID, itemID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lock": info})
}

// ReleaseLock clears the item lock. Only the holder, a project manager, or
// a project admin may release it.
func ReleaseLock(c *gin.Context) {
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

	if err := lockSvc.Release(projectID, itemID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lock released"})
}

// ListVisibleItems returns the item ids the caller may act on, filtered by
// their project role.
func ListVisibleItems(c *gin.Context) {
	initServices()

	projectID, ok := pathID(c, "project_id")
	if !ok {
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User context missing"})
		return
	}

	itemIDs, err := visibilitySvc.ListVisibleItems(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"item_ids": itemIDs,
		"total":    len(itemIDs),
	})
}
