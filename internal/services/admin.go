package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Levi-LMN/Trivia/internal/models"

	"gorm.io/gorm"
)

// AdminService is the authoring surface: quiz sessions, sections and
// questions are mutated only here, never by the attempt engine.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

type SessionInput struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Randomize        bool   `json:"randomize"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
}

type SectionInput struct {
	Name     string `json:"name"`
	OrderNum int    `json:"order_num"`
}

type QuestionInput struct {
	Type          string              `json:"type"`
	Text          string              `json:"text"`
	OptionA       string              `json:"option_a"`
	OptionB       string              `json:"option_b"`
	OptionC       string              `json:"option_c"`
	OptionD       string              `json:"option_d"`
	CorrectAnswer string              `json:"correct_answer"`
	BlankOptions  models.BlankOptions `json:"blank_options"`
	Points        int                 `json:"points"`
	OrderNum      int                 `json:"order_num"`
}

type SessionSummary struct {
	models.QuizSession
	SectionCount     int `json:"section_count"`
	QuestionCount    int `json:"question_count"`
	ParticipantCount int `json:"participant_count"`
}

type SectionSummary struct {
	models.Section
	QuestionCount int `json:"question_count"`
}

type DashboardStats struct {
	Participants int64 `json:"participants"`
	Sessions     int64 `json:"sessions"`
	Questions    int64 `json:"questions"`
	Correct      int64 `json:"correct"`
}

type ParticipantRow struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	SessionsTaken int    `json:"sessions_taken"`
	TotalAnswered int    `json:"total_answered"`
	CorrectCount  int    `json:"correct_count"`
	TotalPoints   int    `json:"total_points"`
	CheatCount    int    `json:"cheat_count"`
}

type RewardCodeRow struct {
	RewardCode   string `json:"reward_code"`
	QuestionText string `json:"question_text"`
	SessionName  string `json:"session_name"`
}

type CheatFlagRow struct {
	Violation   string `json:"violation"`
	SessionName string `json:"session_name"`
}

// Quiz session CRUD

func (s *AdminService) ListSessions() ([]SessionSummary, error) {
	var summaries []SessionSummary
	err := s.db.Model(&models.QuizSession{}).
		Select(`quiz_sessions.*,
			COUNT(DISTINCT sections.id) AS section_count,
			COUNT(DISTINCT questions.id) AS question_count,
			COUNT(DISTINCT attempts.participant_id) AS participant_count`).
		Joins("LEFT JOIN sections ON sections.quiz_session_id = quiz_sessions.id").
		Joins("LEFT JOIN questions ON questions.section_id = sections.id").
		Joins("LEFT JOIN attempts ON attempts.quiz_session_id = quiz_sessions.id").
		Group("quiz_sessions.id").
		Order("quiz_sessions.created_at DESC").
		Scan(&summaries).Error
	return summaries, err
}

func (s *AdminService) CreateSession(input SessionInput) (*models.QuizSession, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("session name is required")
	}
	if input.TimeLimitMinutes < 0 {
		return nil, errors.New("time limit cannot be negative")
	}

	qs := models.QuizSession{
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		IsActive:         true,
		Randomize:        input.Randomize,
		TimeLimitMinutes: input.TimeLimitMinutes,
		CreatedAt:        NowEAT(),
	}
	if err := s.db.Create(&qs).Error; err != nil {
		return nil, err
	}
	return &qs, nil
}

func (s *AdminService) UpdateSession(sessionID uint, input SessionInput) (*models.QuizSession, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.New("session name is required")
	}
	if input.TimeLimitMinutes < 0 {
		return nil, errors.New("time limit cannot be negative")
	}

	var qs models.QuizSession
	if err := s.db.First(&qs, sessionID).Error; err != nil {
		return nil, errors.New("quiz session not found")
	}

	qs.Name = name
	qs.Description = input.Description
	qs.TimeLimitMinutes = input.TimeLimitMinutes
	if err := s.db.Save(&qs).Error; err != nil {
		return nil, err
	}
	return &qs, nil
}

func (s *AdminService) ToggleActive(sessionID uint) error {
	return s.toggle(sessionID, "is_active")
}

func (s *AdminService) ToggleRandomize(sessionID uint) error {
	return s.toggle(sessionID, "randomize")
}

func (s *AdminService) toggle(sessionID uint, column string) error {
	res := s.db.Model(&models.QuizSession{}).
		Where("id = ?", sessionID).
		Update(column, gorm.Expr("NOT "+column))
	if res.RowsAffected == 0 {
		return errors.New("quiz session not found")
	}
	return res.Error
}

func (s *AdminService) DeleteSession(sessionID uint) error {
	res := s.db.Select("Sections").Delete(&models.QuizSession{ID: sessionID})
	if res.RowsAffected == 0 {
		return errors.New("quiz session not found")
	}
	return res.Error
}

// Section CRUD

func (s *AdminService) ListSections(sessionID uint) ([]SectionSummary, error) {
	var summaries []SectionSummary
	err := s.db.Model(&models.Section{}).
		Select("sections.*, COUNT(questions.id) AS question_count").
		Joins("LEFT JOIN questions ON questions.section_id = sections.id").
		Where("sections.quiz_session_id = ?", sessionID).
		Group("sections.id").
		Order("sections.order_num ASC").
		Scan(&summaries).Error
	return summaries, err
}

func (s *AdminService) CreateSection(sessionID uint, input SectionInput) (*models.Section, error) {
	var qs models.QuizSession
	if err := s.db.First(&qs, sessionID).Error; err != nil {
		return nil, errors.New("quiz session not found")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.New("section name is required")
	}

	sec := models.Section{
		QuizSessionID: sessionID,
		Name:          strings.TrimSpace(input.Name),
		OrderNum:      input.OrderNum,
	}
	if err := s.db.Create(&sec).Error; err != nil {
		return nil, err
	}
	return &sec, nil
}

func (s *AdminService) UpdateSection(sectionID uint, input SectionInput) (*models.Section, error) {
	var sec models.Section
	if err := s.db.First(&sec, sectionID).Error; err != nil {
		return nil, errors.New("section not found")
	}

	sec.Name = strings.TrimSpace(input.Name)
	sec.OrderNum = input.OrderNum
	if err := s.db.Save(&sec).Error; err != nil {
		return nil, err
	}
	return &sec, nil
}

func (s *AdminService) DeleteSection(sectionID uint) error {
	res := s.db.Select("Questions").Delete(&models.Section{ID: sectionID})
	if res.RowsAffected == 0 {
		return errors.New("section not found")
	}
	return res.Error
}

// Question CRUD

func (s *AdminService) ListQuestions(sectionID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Where("section_id = ?", sectionID).
		Order("order_num ASC").
		Find(&questions).Error
	return questions, err
}

func (s *AdminService) CreateQuestion(sectionID uint, input QuestionInput) (*models.Question, error) {
	var sec models.Section
	if err := s.db.First(&sec, sectionID).Error; err != nil {
		return nil, errors.New("section not found")
	}

	q, err := questionFromInput(sectionID, input)
	if err != nil {
		return nil, err
	}
	if err := s.db.Create(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AdminService) UpdateQuestion(questionID uint, input QuestionInput) (*models.Question, error) {
	var existing models.Question
	if err := s.db.First(&existing, questionID).Error; err != nil {
		return nil, errors.New("question not found")
	}

	q, err := questionFromInput(existing.SectionID, input)
	if err != nil {
		return nil, err
	}
	q.ID = existing.ID
	if err := s.db.Save(q).Error; err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AdminService) DeleteQuestion(questionID uint) error {
	res := s.db.Delete(&models.Question{}, questionID)
	if res.RowsAffected == 0 {
		return errors.New("question not found")
	}
	return res.Error
}

// questionFromInput validates the canonical answer against the question type
// before anything is stored. The format contract is enforced here, at
// authoring time; the engine grades deterministically against whatever the
// store holds.
func questionFromInput(sectionID uint, input QuestionInput) (*models.Question, error) {
	qType := input.Type
	if qType == "" {
		qType = models.QuestionTypeSingle
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.New("question text is required")
	}

	points := input.Points
	if points < 1 {
		points = 1
	}

	q := &models.Question{
		SectionID: sectionID,
		Type:      qType,
		Text:      input.Text,
		OptionA:   strings.TrimSpace(input.OptionA),
		OptionB:   strings.TrimSpace(input.OptionB),
		OptionC:   strings.TrimSpace(input.OptionC),
		OptionD:   strings.TrimSpace(input.OptionD),
		Points:    points,
		OrderNum:  input.OrderNum,
	}

	switch qType {
	case models.QuestionTypeSingle:
		letter := strings.ToUpper(strings.TrimSpace(input.CorrectAnswer))
		if err := validateLetters(q, []string{letter}); err != nil {
			return nil, err
		}
		q.CorrectAnswer = letter
		q.BlankOptions = models.BlankOptions{}

	case models.QuestionTypeMulti:
		normalized := normalizeMulti(input.CorrectAnswer)
		if normalized == "" {
			return nil, errors.New("multi question needs at least one correct letter")
		}
		if err := validateLetters(q, strings.Split(normalized, ",")); err != nil {
			return nil, err
		}
		q.CorrectAnswer = normalized
		q.BlankOptions = models.BlankOptions{}

	case models.QuestionTypeFillBlank:
		if len(input.BlankOptions) == 0 {
			return nil, errors.New("fill_blank question needs at least one blank")
		}
		parts := splitTrim(input.CorrectAnswer, "|")
		if len(parts) != len(input.BlankOptions) {
			return nil, fmt.Errorf("canonical answer has %d parts but %d blanks are defined",
				len(parts), len(input.BlankOptions))
		}
		for i, part := range parts {
			if part == "" {
				return nil, fmt.Errorf("blank %d has an empty canonical answer", i+1)
			}
			if len(input.BlankOptions[i]) == 0 {
				return nil, fmt.Errorf("blank %d has no options", i+1)
			}
			if !containsString(input.BlankOptions[i], part) {
				return nil, fmt.Errorf("canonical answer %q is not among the options for blank %d", part, i+1)
			}
		}
		q.CorrectAnswer = strings.Join(parts, "|")
		q.BlankOptions = input.BlankOptions

	default:
		return nil, errors.New("unknown question type: " + qType)
	}

	return q, nil
}

// validateLetters checks that each canonical letter names a non-empty option.
func validateLetters(q *models.Question, letters []string) error {
	byLabel := map[string]string{
		"A": q.OptionA, "B": q.OptionB, "C": q.OptionC, "D": q.OptionD,
	}
	for _, l := range letters {
		text, ok := byLabel[l]
		if !ok {
			return fmt.Errorf("correct answer %q is not an option letter", l)
		}
		if text == "" {
			return fmt.Errorf("correct answer %q points at an empty option", l)
		}
	}
	return nil
}

func containsString(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

// Reporting

func (s *AdminService) Stats() (*DashboardStats, error) {
	var stats DashboardStats
	s.db.Model(&models.Participant{}).Count(&stats.Participants)
	s.db.Model(&models.QuizSession{}).Count(&stats.Sessions)
	s.db.Model(&models.Question{}).Count(&stats.Questions)
	s.db.Model(&models.Answer{}).Where("is_correct = ?", true).Count(&stats.Correct)
	return &stats, nil
}

// Participants lists the roster with score and cheat aggregates, highest
// points first.
func (s *AdminService) Participants() ([]ParticipantRow, error) {
	var rows []ParticipantRow
	err := s.db.Model(&models.Participant{}).
		Select(`participants.id, participants.name, participants.phone,
			COUNT(DISTINCT attempts.quiz_session_id) AS sessions_taken,
			COUNT(answers.id) AS total_answered,
			COALESCE(SUM(CASE WHEN answers.is_correct THEN 1 ELSE 0 END), 0) AS correct_count,
			COALESCE(SUM(CASE WHEN answers.is_correct THEN questions.points ELSE 0 END), 0) AS total_points,
			(SELECT COUNT(*) FROM cheat_flags
			 JOIN attempts a2 ON a2.id = cheat_flags.attempt_id
			 WHERE a2.participant_id = participants.id) AS cheat_count`).
		Joins("LEFT JOIN attempts ON attempts.participant_id = participants.id").
		Joins("LEFT JOIN answers ON answers.attempt_id = attempts.id").
		Joins("LEFT JOIN questions ON questions.id = answers.question_id").
		Group("participants.id").
		Order("total_points DESC").
		Scan(&rows).Error
	return rows, err
}

// RewardCodes lists a participant's earned codes, newest first.
func (s *AdminService) RewardCodes(participantID uint) ([]RewardCodeRow, error) {
	var rows []RewardCodeRow
	err := s.db.Model(&models.Answer{}).
		Select(`answers.reward_code, questions.text AS question_text,
			quiz_sessions.name AS session_name`).
		Joins("JOIN attempts ON attempts.id = answers.attempt_id").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("JOIN sections ON sections.id = questions.section_id").
		Joins("JOIN quiz_sessions ON quiz_sessions.id = sections.quiz_session_id").
		Where("attempts.participant_id = ? AND answers.is_correct = ?", participantID, true).
		Order("answers.answered_at DESC").
		Scan(&rows).Error
	return rows, err
}

// CheatFlags lists a participant's most recent violations.
func (s *AdminService) CheatFlags(participantID uint, limit int) ([]CheatFlagRow, error) {
	var rows []CheatFlagRow
	err := s.db.Model(&models.CheatFlag{}).
		Select(`cheat_flags.violation, quiz_sessions.name AS session_name`).
		Joins("JOIN attempts ON attempts.id = cheat_flags.attempt_id").
		Joins("JOIN quiz_sessions ON quiz_sessions.id = attempts.quiz_session_id").
		Where("attempts.participant_id = ?", participantID).
		Order("cheat_flags.flagged_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (s *AdminService) GetParticipant(participantID uint) (*models.Participant, error) {
	var p models.Participant
	if err := s.db.First(&p, participantID).Error; err != nil {
		return nil, errors.New("participant not found")
	}
	return &p, nil
}
