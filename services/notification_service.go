package services

import (
	"fmt"
	"log"

	"annotation-review-api/config"
	"annotation-review-api/models"

	"gorm.io/gorm"
)

// NotificationService emails annotators about review outcomes. Delivery is
// best effort and never blocks or fails the triggering action.
type NotificationService struct {
	db   *gorm.DB
	send func(to []string, subject, html string) error
}

// NewNotificationService creates a notification service using the shared
// SMTP mailer.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db, send: config.SendMail}
}

// NotifyRejection emails the annotator whose work was rejected, with the
// reviewer's notes.
func (s *NotificationService) NotifyRejection(rec *models.TrackingRecord, notes string) {
	if rec == nil || rec.AnnotatedBy == nil {
		return
	}
	annotatorID := *rec.AnnotatedBy

	go func() {
		var user models.User
		if err := s.db.Where("user_id = ? AND delete_at IS NULL", annotatorID).First(&user).Error; err != nil {
			log.Printf("rejection notification: annotator %d lookup failed: %v", annotatorID, err)
			return
		}
		if user.Email == "" {
			return
		}

		subject := fmt.Sprintf("Annotation rejected (project %d, item %d)", rec.ProjectID, rec.ItemID)
		body := fmt.Sprintf(
			"<p>Hello %s,</p><p>Your annotation for item %d was rejected by a reviewer.</p><p>Reviewer notes:</p><blockquote>%s</blockquote><p>Please revise and resubmit.</p>",
			user.FullName(), rec.ItemID, notes,
		)
		if err := s.send([]string{user.Email}, subject, body); err != nil {
			log.Printf("rejection notification: send to %s failed: %v", user.Email, err)
		}
	}()
}
