package routes

import (
	"annotation-review-api/controllers"
	"annotation-review-api/middleware"
	"annotation-review-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Annotation Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Projects
			protected.GET("/projects", controllers.GetProjects)
			protected.POST("/projects", controllers.CreateProject)

			projects := protected.Group("/projects/:project_id")
			projects.Use(middleware.RequireProjectRole())
			{
				projects.GET("", controllers.GetProject)

				// Members (admin only for mutation)
				projects.GET("/members", controllers.GetProjectMembers)
				projects.POST("/members",
					middleware.RequireProjectRole(models.RoleProjectAdmin),
					controllers.AddProjectMember)
				projects.DELETE("/members/:member_id",
					middleware.RequireProjectRole(models.RoleProjectAdmin),
					controllers.RemoveProjectMember)

				// Label taxonomy
				projects.GET("/label-types", controllers.GetLabelTypes)
				projects.POST("/label-types",
					middleware.RequireProjectRole(models.RoleProjectAdmin, models.RoleProjectManager),
					controllers.CreateLabelType)

				// Items
				projects.GET("/items", controllers.ListVisibleItems)
				projects.POST("/items",
					middleware.RequireProjectRole(models.RoleProjectAdmin, models.RoleProjectManager),
					controllers.CreateItem)
				projects.GET("/items/:item_id", controllers.GetItem)
				projects.DELETE("/items/:item_id",
					middleware.RequireProjectRole(models.RoleProjectAdmin),
					controllers.DeleteItem)

				// Annotation lifecycle
				projects.GET("/items/:item_id/tracking", controllers.GetTracking)
				projects.POST("/items/:item_id/start", controllers.StartAnnotation)
				projects.POST("/items/:item_id/submit", controllers.SubmitAnnotation)
				projects.POST("/items/:item_id/lock", controllers.AcquireLock)
				projects.DELETE("/items/:item_id/lock", controllers.ReleaseLock)

				// Review chain
				projects.POST("/items/:item_id/approve",
					middleware.RequireProjectRole(models.RoleFirstTierReviewer, models.RoleProjectManager, models.RoleProjectAdmin),
					controllers.ApproveItem)
				projects.POST("/items/:item_id/reject",
					middleware.RequireProjectRole(models.RoleFirstTierReviewer, models.RoleProjectManager, models.RoleProjectAdmin),
					controllers.RejectItem)
				projects.GET("/items/:item_id/approvals", controllers.ListItemApprovals)

				// Reporting
				projects.GET("/summary", controllers.GetCompletionSummary)
				projects.GET("/annotator-stats", controllers.GetAnnotatorStats)
				projects.GET("/reviewer-stats", controllers.GetReviewerStats)
			}

			// Payroll
			protected.POST("/payments/calculate", controllers.CalculatePayment)
			protected.POST("/payments/count-syllables", controllers.CountSyllables)
			protected.GET("/payments/rates", controllers.GetPaymentRates)
			protected.POST("/payments/rates", controllers.UpsertPaymentRate)
		}

	}

	// 404 handler for unmatched routes
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Endpoint not found"})
	})
}
