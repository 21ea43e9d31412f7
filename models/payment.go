package models

import "time"

// PaymentRate represents the payment_rates table: per-project unit rates for
// payroll. A project pays for audio minutes plus exactly one of segments or
// syllables, never both.
type PaymentRate struct {
	RateID          uint       `gorm:"primaryKey;column:rate_id" json:"rate_id"`
	ProjectCode     string     `gorm:"column:project_code;uniqueIndex" json:"project_code"`
	AudioMinuteRate float64    `gorm:"column:audio_minute_rate" json:"audio_minute_rate"`
	SegmentRate     float64    `gorm:"column:segment_rate" json:"segment_rate"`
	SyllableRate    float64    `gorm:"column:syllable_rate" json:"syllable_rate"`
	Currency        string     `gorm:"column:currency" json:"currency"`
	IsActive        bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       *time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name for PaymentRate
func (PaymentRate) TableName() string {
	return "payment_rates"
}
