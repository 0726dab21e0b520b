package services

import (
	"errors"
	"log"

	"github.com/Levi-LMN/Trivia/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound      = errors.New("quiz session not found or inactive")
	ErrQuestionNotInSession = errors.New("question does not belong to this quiz session")
)

// AttemptService owns the lifecycle of one participant's attempt at one quiz
// session: lazy creation on first visit, answer submission, and completion by
// either answering everything or running out the clock. Expiry is evaluated
// at the top of every operation that touches an attempt; there is no
// background sweep.
type AttemptService struct {
	db *gorm.DB
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{db: db}
}

// QuestionView is what a participant is allowed to see of a question: no
// canonical answer.
type QuestionView struct {
	ID          uint                   `json:"id"`
	Type        string                 `json:"type"`
	Text        string                 `json:"text"`
	SectionName string                 `json:"section_name"`
	Options     []models.LabeledOption `json:"options,omitempty"`
	Blanks      models.BlankOptions    `json:"blanks,omitempty"`
	Points      int                    `json:"points"`
}

type AttemptState struct {
	AttemptID        uint          `json:"attempt_id"`
	SessionID        uint          `json:"session_id"`
	SessionName      string        `json:"session_name"`
	Completed        bool          `json:"completed"`
	Progress         int           `json:"progress"`
	Total            int           `json:"total"`
	RemainingSeconds *int          `json:"remaining_seconds"`
	NextQuestion     *QuestionView `json:"next_question,omitempty"`
}

type SubmitResult struct {
	Accepted   bool    `json:"accepted"`
	Duplicate  bool    `json:"duplicate"`
	IsCorrect  bool    `json:"is_correct"`
	RewardCode *string `json:"reward_code,omitempty"`
	State      *AttemptState
}

type TimerStatus struct {
	Remaining *int `json:"remaining"`
	Expired   bool `json:"expired"`
}

type SessionOverview struct {
	Session          models.QuizSession `json:"session"`
	QuestionCount    int                `json:"question_count"`
	Completed        bool               `json:"completed"`
	InProgress       bool               `json:"in_progress"`
	RemainingSeconds *int               `json:"remaining_seconds,omitempty"`
}

// Enter is the idempotent entry point: the participant's first visit creates
// an open attempt, later visits reuse it. The expiry check runs before
// anything else; an expired attempt is sealed here and reported completed.
func (s *AttemptService) Enter(participantID, sessionID uint) (*AttemptState, error) {
	qs, err := s.activeSession(sessionID)
	if err != nil {
		return nil, err
	}

	attempt, err := s.openOrCreateAttempt(participantID, sessionID)
	if err != nil {
		return nil, err
	}

	remaining := RemainingSeconds(attempt.StartedAt, qs.TimeLimitMinutes, NowEAT())
	if Expired(remaining) {
		if err := s.seal(attempt.ID); err != nil {
			return nil, err
		}
		return s.completedState(attempt, qs), nil
	}

	return s.openState(attempt, qs, remaining), nil
}

// SubmitAnswer grades and records one answer. Preconditions checked in
// order: session active, attempt open (expiry first), question belongs to
// the session. Empty submissions are absorbed without a record; duplicates
// are a no-op that reports the already-persisted outcome.
func (s *AttemptService) SubmitAnswer(participantID, sessionID, questionID uint, sub Submission) (*SubmitResult, error) {
	qs, err := s.activeSession(sessionID)
	if err != nil {
		return nil, err
	}

	var attempt models.Attempt
	if err := s.openAttempt(participantID, sessionID, &attempt); err != nil {
		// Nothing open: the attempt was already completed (or never started).
		return &SubmitResult{State: s.latestState(participantID, qs)}, nil
	}

	remaining := RemainingSeconds(attempt.StartedAt, qs.TimeLimitMinutes, NowEAT())
	if Expired(remaining) {
		if err := s.seal(attempt.ID); err != nil {
			return nil, err
		}
		return &SubmitResult{State: s.completedState(&attempt, qs)}, nil
	}

	var question models.Question
	if err := s.db.
		Joins("JOIN sections ON sections.id = questions.section_id").
		Where("questions.id = ? AND sections.quiz_session_id = ?", questionID, sessionID).
		First(&question).Error; err != nil {
		return nil, ErrQuestionNotInSession
	}

	sub.Type = question.Type
	if question.Type == models.QuestionTypeFillBlank {
		sub.Blanks = padBlanks(sub.Blanks, len(question.BlankOptions))
	}
	if sub.Empty() {
		// Re-prompt the same question; the attempt is left unchanged.
		return &SubmitResult{State: s.openState(&attempt, qs, remaining)}, nil
	}

	isCorrect, stored := CheckAnswer(&question, sub)
	var code *string
	if isCorrect {
		c := GenerateRewardCode(participantID, question.ID)
		code = &c
	}

	answer := models.Answer{
		AttemptID:  attempt.ID,
		QuestionID: question.ID,
		Selected:   stored,
		IsCorrect:  isCorrect,
		RewardCode: code,
		AnsweredAt: NowEAT(),
	}
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&answer)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race or a straight retry: report the persisted record.
		var existing models.Answer
		if err := s.db.Where("attempt_id = ? AND question_id = ?", attempt.ID, question.ID).
			First(&existing).Error; err != nil {
			return nil, err
		}
		return &SubmitResult{
			Duplicate:  true,
			IsCorrect:  existing.IsCorrect,
			RewardCode: existing.RewardCode,
			State:      s.refreshState(&attempt, qs),
		}, nil
	}

	state := s.refreshState(&attempt, qs)
	return &SubmitResult{
		Accepted:   true,
		IsCorrect:  isCorrect,
		RewardCode: code,
		State:      state,
	}, nil
}

// Finish seals the caller's open attempt, whatever has been answered. Used
// for manual submission and for the client-side anti-cheat auto-submit; a
// completed or missing attempt makes this a no-op.
func (s *AttemptService) Finish(participantID, sessionID uint) (*AttemptState, error) {
	qs, err := s.activeSession(sessionID)
	if err != nil {
		return nil, err
	}

	var attempt models.Attempt
	if err := s.openAttempt(participantID, sessionID, &attempt); err == nil {
		if err := s.seal(attempt.ID); err != nil {
			return nil, err
		}
		return s.completedState(&attempt, qs), nil
	}
	return s.latestState(participantID, qs), nil
}

// Status is the read-only poll contract for client timer displays. It uses
// exactly the same clock computation as the mutating paths so client and
// server never disagree about expiry. No state changes here.
func (s *AttemptService) Status(participantID, sessionID uint) *TimerStatus {
	var qs models.QuizSession
	if err := s.db.First(&qs, sessionID).Error; err != nil {
		return &TimerStatus{Remaining: intPtr(0), Expired: true}
	}

	var attempt models.Attempt
	if err := s.openAttempt(participantID, sessionID, &attempt); err != nil {
		return &TimerStatus{Remaining: intPtr(0), Expired: true}
	}

	if !qs.Timed() {
		return &TimerStatus{Remaining: nil, Expired: false}
	}

	remaining := RemainingSeconds(attempt.StartedAt, qs.TimeLimitMinutes, NowEAT())
	return &TimerStatus{Remaining: remaining, Expired: Expired(remaining)}
}

// Overview decorates the active session listing with the caller's progress:
// which sessions are completed, which are in flight, and the live countdown
// for the timed ones.
func (s *AttemptService) Overview(participantID uint) ([]SessionOverview, error) {
	var sessions []models.QuizSession
	if err := s.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	var attempts []models.Attempt
	s.db.Where("participant_id = ?", participantID).Find(&attempts)

	completed := make(map[uint]bool)
	open := make(map[uint]models.Attempt)
	for _, a := range attempts {
		if a.Open() {
			open[a.QuizSessionID] = a
		} else {
			completed[a.QuizSessionID] = true
		}
	}

	out := make([]SessionOverview, 0, len(sessions))
	for _, qs := range sessions {
		var count int64
		s.db.Model(&models.Question{}).
			Joins("JOIN sections ON sections.id = questions.section_id").
			Where("sections.quiz_session_id = ?", qs.ID).
			Count(&count)

		ov := SessionOverview{
			Session:       qs,
			QuestionCount: int(count),
			Completed:     completed[qs.ID],
		}
		if a, ok := open[qs.ID]; ok {
			ov.InProgress = true
			ov.RemainingSeconds = RemainingSeconds(a.StartedAt, qs.TimeLimitMinutes, NowEAT())
		}
		out = append(out, ov)
	}
	return out, nil
}

func (s *AttemptService) activeSession(sessionID uint) (*models.QuizSession, error) {
	var qs models.QuizSession
	if err := s.db.Where("id = ? AND is_active = ?", sessionID, true).First(&qs).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	return &qs, nil
}

func (s *AttemptService) openAttempt(participantID, sessionID uint, dst *models.Attempt) error {
	return s.db.Where(
		"participant_id = ? AND quiz_session_id = ? AND completed_at IS NULL",
		participantID, sessionID,
	).First(dst).Error
}

func (s *AttemptService) openOrCreateAttempt(participantID, sessionID uint) (*models.Attempt, error) {
	var attempt models.Attempt
	if err := s.openAttempt(participantID, sessionID, &attempt); err == nil {
		return &attempt, nil
	}

	attempt = models.Attempt{
		ParticipantID: participantID,
		QuizSessionID: sessionID,
		StartedAt:     NowEAT(),
	}
	// The partial unique index absorbs concurrent first visits; the loser of
	// the race re-reads the row the winner created.
	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&attempt)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.openAttempt(participantID, sessionID, &attempt); err != nil {
			return nil, err
		}
	}
	return &attempt, nil
}

// seal marks the attempt complete. The completed_at IS NULL guard keeps it
// idempotent under concurrent expiry and completion checks. Callers must not
// report a completed attempt when the seal fails.
func (s *AttemptService) seal(attemptID uint) error {
	return s.db.Model(&models.Attempt{}).
		Where("id = ? AND completed_at IS NULL", attemptID).
		Update("completed_at", NowEAT()).Error
}

func (s *AttemptService) orderedSections(sessionID uint) []models.Section {
	var sections []models.Section
	s.db.Where("quiz_session_id = ?", sessionID).
		Order("order_num ASC").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Find(&sections)
	return sections
}

func (s *AttemptService) answeredIDs(attemptID uint) map[uint]bool {
	var answers []models.Answer
	s.db.Select("question_id").Where("attempt_id = ?", attemptID).Find(&answers)
	ids := make(map[uint]bool, len(answers))
	for _, a := range answers {
		ids[a.QuestionID] = true
	}
	return ids
}

// openState computes the presentation of an open attempt: progress, the next
// unanswered question in sequencer order, and — when nothing remains — a
// defensive completion even if the count check never fired.
func (s *AttemptService) openState(attempt *models.Attempt, qs *models.QuizSession, remaining *int) *AttemptState {
	sections := s.orderedSections(qs.ID)
	ordered := OrderQuestions(sections, qs.Randomize, attempt.ID)
	answered := s.answeredIDs(attempt.ID)

	sectionNames := make(map[uint]string, len(sections))
	for _, sec := range sections {
		sectionNames[sec.ID] = sec.Name
	}

	state := &AttemptState{
		AttemptID:        attempt.ID,
		SessionID:        qs.ID,
		SessionName:      qs.Name,
		Progress:         len(answered),
		Total:            len(ordered),
		RemainingSeconds: remaining,
	}

	for i := range ordered {
		q := &ordered[i]
		if answered[q.ID] {
			continue
		}
		view := &QuestionView{
			ID:          q.ID,
			Type:        q.Type,
			Text:        q.Text,
			SectionName: sectionNames[q.SectionID],
			Points:      q.Points,
		}
		switch q.Type {
		case models.QuestionTypeFillBlank:
			view.Blanks = q.BlankOptions
		default:
			view.Options = q.Options()
		}
		state.NextQuestion = view
		return state
	}

	// No unanswered question left: force the completion transition. If the
	// seal fails the attempt stays open and the state says so.
	if err := s.seal(attempt.ID); err != nil {
		log.Printf("seal attempt %d: %v", attempt.ID, err)
		return state
	}
	state.Completed = true
	return state
}

// refreshState re-evaluates completion after a successful submission.
func (s *AttemptService) refreshState(attempt *models.Attempt, qs *models.QuizSession) *AttemptState {
	remaining := RemainingSeconds(attempt.StartedAt, qs.TimeLimitMinutes, NowEAT())
	state := s.openState(attempt, qs, remaining)
	if !state.Completed && state.Progress >= state.Total {
		if err := s.seal(attempt.ID); err != nil {
			log.Printf("seal attempt %d: %v", attempt.ID, err)
			return state
		}
		state.Completed = true
		state.NextQuestion = nil
	}
	return state
}

func (s *AttemptService) completedState(attempt *models.Attempt, qs *models.QuizSession) *AttemptState {
	answered := s.answeredIDs(attempt.ID)
	var total int64
	s.db.Model(&models.Question{}).
		Joins("JOIN sections ON sections.id = questions.section_id").
		Where("sections.quiz_session_id = ?", qs.ID).
		Count(&total)

	return &AttemptState{
		AttemptID:   attempt.ID,
		SessionID:   qs.ID,
		SessionName: qs.Name,
		Completed:   true,
		Progress:    len(answered),
		Total:       int(total),
	}
}

// latestState reports the most recent attempt for the pair, for callers who
// hit a session they have already sealed.
func (s *AttemptService) latestState(participantID uint, qs *models.QuizSession) *AttemptState {
	var attempt models.Attempt
	if err := s.db.Where("participant_id = ? AND quiz_session_id = ?", participantID, qs.ID).
		Order("started_at DESC").
		First(&attempt).Error; err != nil {
		return &AttemptState{SessionID: qs.ID, SessionName: qs.Name, Completed: true}
	}
	return s.completedState(&attempt, qs)
}

func intPtr(v int) *int {
	return &v
}
