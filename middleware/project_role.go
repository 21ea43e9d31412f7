package middleware

import (
	"net/http"
	"strconv"

	"annotation-review-api/config"
	"annotation-review-api/models"

	"github.com/gin-gonic/gin"
)

// RequireProjectRole checks the caller's membership role in the project
// named by the :project_id path param. The resolved role is stored in the
// context under "projectRole" for the handler.
func RequireProjectRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User context missing"})
			c.Abort()
			return
		}

		projectID, err := strconv.ParseUint(c.Param("project_id"), 10, 64)
		if err != nil || projectID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
			c.Abort()
			return
		}

		var member models.ProjectMember
		if err := config.DB.Where("project_id = ? AND user_id = ?", uint(projectID), userID).
			First(&member).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a project member"})
			c.Abort()
			return
		}

		if len(roles) > 0 {
			allowed := false
			for _, role := range roles {
				if member.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
				c.Abort()
				return
			}
		}

		c.Set("projectRole", member.Role)
		c.Next()
	}
}
