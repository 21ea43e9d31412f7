package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item represents the items table. An item is the atomic unit of annotation
// work: a text passage, an audio segment, or both.
type Item struct {
	ItemID        uint       `gorm:"primaryKey;column:item_id" json:"item_id"`
	UUID          string     `gorm:"column:uuid;uniqueIndex" json:"uuid"`
	ProjectID     uint       `gorm:"column:project_id;index" json:"project_id"`
	Text          *string    `gorm:"column:text;type:text" json:"text,omitempty"`
	AudioPath     *string    `gorm:"column:audio_path" json:"audio_path,omitempty"`
	AudioDuration *float64   `gorm:"column:audio_duration" json:"audio_duration,omitempty"` // seconds
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     *time.Time `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt     *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	Project Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
}

// BeforeCreate assigns a public UUID before inserting a new item.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.UUID == "" {
		i.UUID = uuid.New().String()
	}
	return nil
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "items"
}

// LabelType represents the label_types table
type LabelType struct {
	LabelTypeID  uint       `gorm:"primaryKey;column:label_type_id" json:"label_type_id"`
	ProjectID    uint       `gorm:"column:project_id;index" json:"project_id"`
	LabelName    string     `gorm:"column:label_name" json:"label_name"`
	Color        *string    `gorm:"column:color" json:"color,omitempty"`
	DisplayOrder int        `gorm:"column:display_order" json:"display_order"`
	IsActive     bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name for LabelType
func (LabelType) TableName() string {
	return "label_types"
}
