package services

import (
	"errors"
	"time"

	"github.com/Levi-LMN/Trivia/internal/models"

	"gorm.io/gorm"
)

// ScoringService is the read side: every number here is derived fresh from
// the answer records on each call, so scores can never drift from what was
// actually graded.
type ScoringService struct {
	db *gorm.DB
}

func NewScoringService(db *gorm.DB) *ScoringService {
	return &ScoringService{db: db}
}

type AttemptScore struct {
	TotalAnswered int `json:"total_answered"`
	CorrectCount  int `json:"correct_count"`
	TotalPoints   int `json:"total_points"`
}

type AnswerDetail struct {
	QuestionID   uint    `json:"question_id"`
	QuestionText string  `json:"question_text"`
	QuestionType string  `json:"question_type"`
	SectionName  string  `json:"section_name"`
	Selected     string  `json:"selected"`
	IsCorrect    bool    `json:"is_correct"`
	Points       int     `json:"points"`
	RewardCode   *string `json:"reward_code,omitempty"`
}

type AttemptSummary struct {
	AttemptID     uint       `json:"attempt_id"`
	SessionID     uint       `json:"session_id"`
	SessionName   string     `json:"session_name"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	TotalAnswered int        `json:"total_answered"`
	CorrectCount  int        `json:"correct_count"`
	TotalPoints   int        `json:"total_points"`
}

type LeaderboardEntry struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	SessionsTaken int    `json:"sessions_taken"`
	CorrectCount  int    `json:"correct_count"`
	TotalPoints   int    `json:"total_points"`
}

// ScoreAttempt sums one attempt: correct answers and the points of the
// questions they belong to.
func (s *ScoringService) ScoreAttempt(attemptID uint) (*AttemptScore, error) {
	var score AttemptScore
	err := s.db.Model(&models.Answer{}).
		Select(`COUNT(answers.id) AS total_answered,
			COALESCE(SUM(CASE WHEN answers.is_correct THEN 1 ELSE 0 END), 0) AS correct_count,
			COALESCE(SUM(CASE WHEN answers.is_correct THEN questions.points ELSE 0 END), 0) AS total_points`).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.attempt_id = ?", attemptID).
		Scan(&score).Error
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// AttemptAnswers lists an attempt's answers in the order they were given,
// joined with question and section context for redisplay.
func (s *ScoringService) AttemptAnswers(attemptID uint) ([]AnswerDetail, error) {
	var details []AnswerDetail
	err := s.db.Model(&models.Answer{}).
		Select(`answers.question_id, questions.text AS question_text,
			questions.type AS question_type, sections.name AS section_name,
			answers.selected, answers.is_correct, questions.points,
			answers.reward_code`).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("JOIN sections ON sections.id = questions.section_id").
		Where("answers.attempt_id = ?", attemptID).
		Order("answers.answered_at ASC").
		Scan(&details).Error
	return details, err
}

// ParticipantSummaries scores each of a participant's attempts, newest
// first, for the all-results view.
func (s *ScoringService) ParticipantSummaries(participantID uint) ([]AttemptSummary, error) {
	var summaries []AttemptSummary
	err := s.db.Model(&models.Attempt{}).
		Select(`attempts.id AS attempt_id, attempts.quiz_session_id AS session_id,
			quiz_sessions.name AS session_name,
			attempts.started_at, attempts.completed_at,
			COUNT(answers.id) AS total_answered,
			COALESCE(SUM(CASE WHEN answers.is_correct THEN 1 ELSE 0 END), 0) AS correct_count,
			COALESCE(SUM(CASE WHEN answers.is_correct THEN questions.points ELSE 0 END), 0) AS total_points`).
		Joins("JOIN quiz_sessions ON quiz_sessions.id = attempts.quiz_session_id").
		Joins("LEFT JOIN answers ON answers.attempt_id = attempts.id").
		Joins("LEFT JOIN questions ON questions.id = answers.question_id").
		Where("attempts.participant_id = ?", participantID).
		Group("attempts.id, quiz_sessions.name").
		Order("attempts.started_at DESC").
		Scan(&summaries).Error
	return summaries, err
}

// AttemptResult bundles the single-attempt results view: the attempt's most
// recent run for the pair plus its graded answers and totals.
func (s *ScoringService) AttemptResult(participantID, sessionID uint) (*AttemptSummary, []AnswerDetail, error) {
	var attempt models.Attempt
	if err := s.db.Where("participant_id = ? AND quiz_session_id = ?", participantID, sessionID).
		Order("started_at DESC").
		First(&attempt).Error; err != nil {
		return nil, nil, errors.New("no attempt for this quiz session")
	}

	score, err := s.ScoreAttempt(attempt.ID)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.AttemptAnswers(attempt.ID)
	if err != nil {
		return nil, nil, err
	}

	var qs models.QuizSession
	s.db.First(&qs, attempt.QuizSessionID)

	summary := &AttemptSummary{
		AttemptID:     attempt.ID,
		SessionID:     attempt.QuizSessionID,
		SessionName:   qs.Name,
		StartedAt:     attempt.StartedAt,
		CompletedAt:   attempt.CompletedAt,
		TotalAnswered: score.TotalAnswered,
		CorrectCount:  score.CorrectCount,
		TotalPoints:   score.TotalPoints,
	}
	return summary, answers, nil
}

// Leaderboard aggregates every participant's correct answers and points
// across all attempts.
func (s *ScoringService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	err := s.db.Model(&models.Participant{}).
		Select(`participants.name, participants.phone,
			COUNT(DISTINCT attempts.quiz_session_id) AS sessions_taken,
			COALESCE(SUM(CASE WHEN answers.is_correct THEN 1 ELSE 0 END), 0) AS correct_count,
			COALESCE(SUM(CASE WHEN answers.is_correct THEN questions.points ELSE 0 END), 0) AS total_points`).
		Joins("LEFT JOIN attempts ON attempts.participant_id = participants.id").
		Joins("LEFT JOIN answers ON answers.attempt_id = attempts.id").
		Joins("LEFT JOIN questions ON questions.id = answers.question_id").
		Group("participants.id").
		Order("total_points DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
