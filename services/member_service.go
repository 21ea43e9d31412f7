package services

import (
	"errors"

	"annotation-review-api/models"

	"gorm.io/gorm"
)

// MemberService resolves project membership and roles.
type MemberService struct {
	db *gorm.DB
}

// NewMemberService creates a member service bound to db.
func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// RoleOf returns the member role of userID in projectID, or ErrNotFound
// when the user is not a member. The query runs on db, which may be a
// transaction already holding locks.
func (s *MemberService) RoleOf(db *gorm.DB, projectID uint, userID int) (string, error) {
	if db == nil {
		db = s.db
	}
	var member models.ProjectMember
	err := db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

// Role returns the member role using the service's own connection.
func (s *MemberService) Role(projectID uint, userID int) (string, error) {
	return s.RoleOf(nil, projectID, userID)
}

// List returns all members of a project with user details.
func (s *MemberService) List(projectID uint) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := s.db.Preload("User").
		Where("project_id = ?", projectID).
		Order("member_id ASC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
