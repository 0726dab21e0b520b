package models

import "time"

// Attempt is one participant's run at one quiz session. At most one open
// attempt (completed_at IS NULL) exists per (participant, session) pair,
// enforced by a partial unique index created in database.Migrate.
type Attempt struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ParticipantID uint       `gorm:"not null;index" json:"participant_id"`
	QuizSessionID uint       `gorm:"not null;index" json:"quiz_session_id"`
	StartedAt     time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// Open reports whether the attempt is still accepting answers.
func (a *Attempt) Open() bool {
	return a.CompletedAt == nil
}
