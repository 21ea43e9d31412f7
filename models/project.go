package models

import "time"

// Project member roles. The role decides which items a member can see and
// which review tier their approvals count toward.
const (
	RoleAnnotator         = "annotator"
	RoleFirstTierReviewer = "first_tier_reviewer"
	RoleProjectManager    = "project_manager"
	RoleProjectAdmin      = "project_admin"
)

// Project represents the projects table
type Project struct {
	ProjectID   uint       `gorm:"primaryKey;column:project_id" json:"project_id"`
	ProjectName string     `gorm:"column:project_name" json:"project_name"`
	ProjectCode string     `gorm:"column:project_code;index" json:"project_code"`
	Description *string    `gorm:"column:description" json:"description"`
	MediaType   string     `gorm:"column:media_type" json:"media_type"`
	CreatedBy   *int       `gorm:"column:created_by" json:"created_by"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Members    []ProjectMember `gorm:"foreignKey:ProjectID;references:ProjectID" json:"members"`
	LabelTypes []LabelType     `gorm:"foreignKey:ProjectID;references:ProjectID" json:"label_types,omitempty"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// ProjectMember represents the project_members table
type ProjectMember struct {
	MemberID  uint       `gorm:"primaryKey;column:member_id" json:"member_id"`
	ProjectID uint       `gorm:"column:project_id;uniqueIndex:idx_member_project_user" json:"project_id"`
	UserID    int        `gorm:"column:user_id;uniqueIndex:idx_member_project_user" json:"user_id"`
	Role      string     `gorm:"column:role" json:"role"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at"`

	User User `gorm:"foreignKey:UserID;references:UserID" json:"user"`
}

// TableName overrides the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}

// IsElevated reports whether the role sees every item and may force-release
// locks held by other members.
func IsElevated(role string) bool {
	return role == RoleProjectManager || role == RoleProjectAdmin
}

// IsValidRole reports whether role is one of the recognized member roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleAnnotator, RoleFirstTierReviewer, RoleProjectManager, RoleProjectAdmin:
		return true
	}
	return false
}
