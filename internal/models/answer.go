package models

import "time"

// Answer is append-only: one record per (attempt, question), never
// overwritten. The unique index makes duplicate submissions a no-op.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AttemptID  uint      `gorm:"not null;uniqueIndex:idx_attempt_question" json:"attempt_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_attempt_question" json:"question_id"`
	Selected   string    `gorm:"size:500;not null" json:"selected"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	RewardCode *string   `gorm:"size:8" json:"reward_code,omitempty"`
	AnsweredAt time.Time `gorm:"index" json:"answered_at"`
}
