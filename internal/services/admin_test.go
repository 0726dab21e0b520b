package services

import (
	"strings"
	"testing"

	"github.com/Levi-LMN/Trivia/internal/models"
)

func TestQuestionFromInputValidation(t *testing.T) {
	base := QuestionInput{
		Text:    "Pick one",
		OptionA: "alpha", OptionB: "beta", OptionC: "gamma", OptionD: "delta",
	}

	tests := []struct {
		name    string
		mutate  func(*QuestionInput)
		wantErr string
	}{
		{
			"single accepts lowercase letter",
			func(q *QuestionInput) { q.Type = models.QuestionTypeSingle; q.CorrectAnswer = "b" },
			"",
		},
		{
			"single rejects non-letter",
			func(q *QuestionInput) { q.Type = models.QuestionTypeSingle; q.CorrectAnswer = "E" },
			"not an option letter",
		},
		{
			"single rejects letter with empty option",
			func(q *QuestionInput) {
				q.Type = models.QuestionTypeSingle
				q.OptionD = ""
				q.CorrectAnswer = "D"
			},
			"empty option",
		},
		{
			"multi normalizes order",
			func(q *QuestionInput) { q.Type = models.QuestionTypeMulti; q.CorrectAnswer = "c, a" },
			"",
		},
		{
			"multi rejects empty set",
			func(q *QuestionInput) { q.Type = models.QuestionTypeMulti; q.CorrectAnswer = " , " },
			"at least one correct letter",
		},
		{
			"fill_blank accepts matching parts",
			func(q *QuestionInput) {
				q.Type = models.QuestionTypeFillBlank
				q.CorrectAnswer = "gold|silver"
				q.BlankOptions = models.BlankOptions{{"gold", "tin"}, {"silver", "lead"}}
			},
			"",
		},
		{
			"fill_blank rejects part count mismatch",
			func(q *QuestionInput) {
				q.Type = models.QuestionTypeFillBlank
				q.CorrectAnswer = "gold"
				q.BlankOptions = models.BlankOptions{{"gold"}, {"silver"}}
			},
			"parts",
		},
		{
			"fill_blank rejects answer outside options",
			func(q *QuestionInput) {
				q.Type = models.QuestionTypeFillBlank
				q.CorrectAnswer = "gold|copper"
				q.BlankOptions = models.BlankOptions{{"gold", "tin"}, {"silver", "lead"}}
			},
			"not among the options",
		},
		{
			"unknown type rejected",
			func(q *QuestionInput) { q.Type = "essay"; q.CorrectAnswer = "anything" },
			"unknown question type",
		},
		{
			"blank text rejected",
			func(q *QuestionInput) {
				q.Type = models.QuestionTypeSingle
				q.Text = "   "
				q.CorrectAnswer = "A"
			},
			"text is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := base
			tt.mutate(&input)
			q, err := questionFromInput(1, input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("questionFromInput: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("questionFromInput accepted %+v, want error containing %q", q, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestQuestionFromInputNormalizesMulti(t *testing.T) {
	q, err := questionFromInput(1, QuestionInput{
		Type: models.QuestionTypeMulti, Text: "Pick all",
		OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
		CorrectAnswer: "d , b",
	})
	if err != nil {
		t.Fatalf("questionFromInput: %v", err)
	}
	if q.CorrectAnswer != "B,D" {
		t.Errorf("canonical answer = %q, want sorted %q", q.CorrectAnswer, "B,D")
	}
	if q.Points != 1 {
		t.Errorf("points = %d, want default 1", q.Points)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewAdminService(db)

	qs, err := svc.CreateSession(SessionInput{Name: " Weekly Quiz ", TimeLimitMinutes: 15, Randomize: true})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if qs.Name != "Weekly Quiz" || !qs.IsActive {
		t.Fatalf("created session = %+v, want trimmed name and active", qs)
	}

	if _, err := svc.CreateSession(SessionInput{Name: "  "}); err == nil {
		t.Error("blank session name accepted")
	}
	if _, err := svc.CreateSession(SessionInput{Name: "x", TimeLimitMinutes: -1}); err == nil {
		t.Error("negative time limit accepted")
	}

	if _, err := svc.UpdateSession(qs.ID, SessionInput{Name: "  ", TimeLimitMinutes: 15}); err == nil {
		t.Error("blank name accepted on update")
	}
	if _, err := svc.UpdateSession(qs.ID, SessionInput{Name: "x", TimeLimitMinutes: -2}); err == nil {
		t.Error("negative time limit accepted on update")
	}
	updated, err := svc.UpdateSession(qs.ID, SessionInput{Name: " Monthly Quiz ", TimeLimitMinutes: 30})
	if err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}
	if updated.Name != "Monthly Quiz" || updated.TimeLimitMinutes != 30 {
		t.Fatalf("updated session = %+v, want trimmed rename with new limit", updated)
	}

	if err := svc.ToggleActive(qs.ID); err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	var reloaded models.QuizSession
	db.First(&reloaded, qs.ID)
	if reloaded.IsActive {
		t.Error("session still active after toggle")
	}
	if err := svc.ToggleRandomize(qs.ID); err != nil {
		t.Fatalf("ToggleRandomize: %v", err)
	}
	db.First(&reloaded, qs.ID)
	if reloaded.Randomize {
		t.Error("randomize still set after toggle")
	}

	sec, err := svc.CreateSection(qs.ID, SectionInput{Name: "Round 1", OrderNum: 1})
	if err != nil {
		t.Fatalf("CreateSection: %v", err)
	}
	if _, err := svc.CreateQuestion(sec.ID, QuestionInput{
		Type: models.QuestionTypeSingle, Text: "Pick A",
		OptionA: "yes", OptionB: "no", CorrectAnswer: "A", Points: 2,
	}); err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}

	sections, err := svc.ListSections(qs.ID)
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if len(sections) != 1 || sections[0].QuestionCount != 1 {
		t.Fatalf("sections = %+v, want one section with one question", sections)
	}

	if err := svc.DeleteSession(qs.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if err := svc.DeleteSession(qs.ID); err == nil {
		t.Error("deleting a missing session must error")
	}
}

func TestStatsAndParticipants(t *testing.T) {
	db := newTestDB(t)
	pid, sid, q1, _ := seedQuiz(t, db, 0)
	attempts := NewAttemptService(db)
	cheats := NewCheatService(db)
	admin := NewAdminService(db)

	if _, err := attempts.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if _, err := attempts.SubmitAnswer(pid, sid, q1, Submission{Letter: "B"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	cheats.Record(pid, sid, "tab_switch")

	stats, err := admin.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Participants != 1 || stats.Sessions != 1 || stats.Questions != 2 || stats.Correct != 1 {
		t.Errorf("stats = %+v", stats)
	}

	rows, err := admin.Participants()
	if err != nil {
		t.Fatalf("Participants: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("roster rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if row.CorrectCount != 1 || row.TotalPoints != 1 || row.CheatCount != 1 {
		t.Errorf("roster row = %+v", row)
	}

	codes, err := admin.RewardCodes(pid)
	if err != nil {
		t.Fatalf("RewardCodes: %v", err)
	}
	if len(codes) != 1 || len(codes[0].RewardCode) != 8 {
		t.Errorf("reward codes = %+v", codes)
	}

	flags, err := admin.CheatFlags(pid, 10)
	if err != nil {
		t.Fatalf("CheatFlags: %v", err)
	}
	if len(flags) != 1 || flags[0].Violation != "tab_switch" {
		t.Errorf("cheat flags = %+v", flags)
	}
}
