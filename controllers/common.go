package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"annotation-review-api/config"
	"annotation-review-api/services"

	"github.com/gin-gonic/gin"
)

var (
	initOnce sync.Once

	memberSvc     *services.MemberService
	trackingSvc   *services.TrackingService
	lockSvc       *services.LockService
	visibilitySvc *services.VisibilityService
	approvalSvc   *services.ApprovalService
	statsSvc      *services.StatsService
	paymentSvc    *services.PaymentService
)

// initServices wires the service graph once against the shared DB handle.
func initServices() {
	initOnce.Do(func() {
		memberSvc = services.NewMemberService(config.DB)
		trackingSvc = services.NewTrackingService(config.DB)
		lockSvc = services.NewLockService(trackingSvc, memberSvc)
		visibilitySvc = services.NewVisibilityService(config.DB, memberSvc, trackingSvc.LockTTL())
		approvalSvc = services.NewApprovalService(trackingSvc, memberSvc, services.NewNotificationService(config.DB))
		statsSvc = services.NewStatsService(config.DB)
		paymentSvc = services.NewPaymentService(config.DB)
	})
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || value == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(value), true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var transition *services.InvalidTransitionError
	var conflict *services.LockConflictError

	switch {
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": transition.Error(), "code": "invalid_transition"})
	case errors.As(err, &conflict):
		c.JSON(http.StatusLocked, gin.H{
			"error":      conflict.Error(),
			"code":       "lock_conflict",
			"held_by":    conflict.HeldBy,
			"held_since": conflict.HeldSince,
		})
	case errors.Is(err, services.ErrApprovalOrder):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "code": "approval_order_violation"})
	case errors.Is(err, services.ErrEmptyNotes):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "empty_notes"})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": "permission_denied"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "not_found"})
	case errors.Is(err, services.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "code": "unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
