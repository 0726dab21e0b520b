package services

import (
	"github.com/Levi-LMN/Trivia/internal/models"

	"gorm.io/gorm"
)

type CheatService struct {
	db *gorm.DB
}

func NewCheatService(db *gorm.DB) *CheatService {
	return &CheatService{db: db}
}

// Record stores a violation against the caller's open attempt at the session
// and returns that attempt's ID with the running total. Unknown kinds are
// coerced to "unknown". Flags against a completed or nonexistent attempt are
// dropped: ok is false and nothing is written, but it is not an error.
func (s *CheatService) Record(participantID, sessionID uint, kind string) (attemptID uint, total int64, ok bool) {
	var attempt models.Attempt
	if err := s.db.Where(
		"participant_id = ? AND quiz_session_id = ? AND completed_at IS NULL",
		participantID, sessionID,
	).First(&attempt).Error; err != nil {
		return 0, 0, false
	}

	flag := models.CheatFlag{
		AttemptID: attempt.ID,
		Violation: models.NormalizeViolation(kind),
		FlaggedAt: NowEAT(),
	}
	if err := s.db.Create(&flag).Error; err != nil {
		return 0, 0, false
	}

	return attempt.ID, s.CountForAttempt(attempt.ID), true
}

// CountForAttempt is the total flags ever recorded for the attempt. The
// auto-submit threshold policy that consumes it lives in the client.
func (s *CheatService) CountForAttempt(attemptID uint) int64 {
	var count int64
	s.db.Model(&models.CheatFlag{}).Where("attempt_id = ?", attemptID).Count(&count)
	return count
}
