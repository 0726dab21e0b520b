package models

import "time"

type QuizSession struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Description      string    `gorm:"type:text;default:''" json:"description"`
	IsActive         bool      `gorm:"not null;default:true" json:"is_active"`
	Randomize        bool      `gorm:"not null;default:true" json:"randomize"`
	TimeLimitMinutes int       `gorm:"not null;default:0" json:"time_limit_minutes"`
	Sections         []Section `gorm:"foreignKey:QuizSessionID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Timed reports whether attempts at this session run against a countdown.
// A limit of 0 means unlimited.
func (qs *QuizSession) Timed() bool {
	return qs.TimeLimitMinutes > 0
}
