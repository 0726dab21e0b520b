package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/Levi-LMN/Trivia/internal/database"
	"github.com/Levi-LMN/Trivia/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedQuiz creates one participant plus a two-section session: a 1-point
// single-choice and a 3-point fill-blank question.
func seedQuiz(t *testing.T, db *gorm.DB, timeLimitMinutes int) (participantID, sessionID, q1ID, q2ID uint) {
	t.Helper()

	p := models.Participant{Phone: "0712345678", Name: "Jane", CreatedAt: NowEAT()}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create participant: %v", err)
	}

	qs := models.QuizSession{
		Name: "Test Session", IsActive: true,
		TimeLimitMinutes: timeLimitMinutes, CreatedAt: NowEAT(),
	}
	if err := db.Create(&qs).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}

	sec1 := models.Section{QuizSessionID: qs.ID, Name: "One", OrderNum: 1}
	sec2 := models.Section{QuizSessionID: qs.ID, Name: "Two", OrderNum: 2}
	db.Create(&sec1)
	db.Create(&sec2)

	q1 := models.Question{
		SectionID: sec1.ID, Type: models.QuestionTypeSingle, Text: "Pick B",
		OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d",
		CorrectAnswer: "B", Points: 1, OrderNum: 0,
	}
	q2 := models.Question{
		SectionID: sec2.ID, Type: models.QuestionTypeFillBlank, Text: "___ and ___",
		CorrectAnswer: "gold|silver",
		BlankOptions:  models.BlankOptions{{"gold", "tin"}, {"silver", "lead"}},
		Points:        3, OrderNum: 0,
	}
	db.Create(&q1)
	db.Create(&q2)

	return p.ID, qs.ID, q1.ID, q2.ID
}

func TestEnterIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	pid, sid, _, _ := seedQuiz(t, db, 0)
	svc := NewAttemptService(db)

	first, err := svc.Enter(pid, sid)
	if err != nil {
		t.Fatalf("first Enter: %v", err)
	}
	if first.Completed || first.Progress != 0 || first.Total != 2 {
		t.Fatalf("first state = %+v, want open 0/2", first)
	}
	if first.NextQuestion == nil {
		t.Fatal("first Enter returned no next question")
	}

	second, err := svc.Enter(pid, sid)
	if err != nil {
		t.Fatalf("second Enter: %v", err)
	}
	if second.AttemptID != first.AttemptID {
		t.Errorf("second Enter opened attempt %d, want resumed %d", second.AttemptID, first.AttemptID)
	}

	var count int64
	db.Model(&models.Attempt{}).Where("participant_id = ?", pid).Count(&count)
	if count != 1 {
		t.Errorf("attempt rows = %d, want 1", count)
	}
}

func TestEnterInactiveSession(t *testing.T) {
	db := newTestDB(t)
	pid, sid, _, _ := seedQuiz(t, db, 0)
	db.Model(&models.QuizSession{}).Where("id = ?", sid).Update("is_active", false)

	if _, err := NewAttemptService(db).Enter(pid, sid); err != ErrSessionNotFound {
		t.Errorf("Enter on inactive session: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSubmitAnswerFlow(t *testing.T) {
	db := newTestDB(t)
	pid, sid, q1, q2 := seedQuiz(t, db, 0)
	svc := NewAttemptService(db)

	if _, err := svc.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	// Wrong single-choice answer is still recorded.
	res, err := svc.SubmitAnswer(pid, sid, q1, Submission{Letter: "a"})
	if err != nil {
		t.Fatalf("submit q1: %v", err)
	}
	if !res.Accepted || res.IsCorrect {
		t.Fatalf("q1 result = %+v, want accepted incorrect", res)
	}
	if res.RewardCode != nil {
		t.Error("incorrect answer must not earn a reward code")
	}
	if res.State.Progress != 1 || res.State.Completed {
		t.Fatalf("state after q1 = %+v, want 1/2 open", res.State)
	}

	// Correct fill-blank completes the attempt and earns a code.
	res, err = svc.SubmitAnswer(pid, sid, q2, Submission{Blanks: []string{"gold", "silver"}})
	if err != nil {
		t.Fatalf("submit q2: %v", err)
	}
	if !res.Accepted || !res.IsCorrect {
		t.Fatalf("q2 result = %+v, want accepted correct", res)
	}
	if res.RewardCode == nil || len(*res.RewardCode) != 8 {
		t.Fatalf("reward code = %v, want 8 characters", res.RewardCode)
	}
	if !res.State.Completed {
		t.Error("answering the last question must complete the attempt")
	}

	// The attempt is sealed: further submissions create nothing.
	late, err := svc.SubmitAnswer(pid, sid, q1, Submission{Letter: "B"})
	if err != nil {
		t.Fatalf("submit after completion: %v", err)
	}
	if late.Accepted {
		t.Error("submission after completion must not be recorded")
	}
	if !late.State.Completed {
		t.Error("submission after completion must report the sealed attempt")
	}

	score, err := NewScoringService(db).ScoreAttempt(late.State.AttemptID)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if score.TotalAnswered != 2 || score.CorrectCount != 1 || score.TotalPoints != 3 {
		t.Errorf("score = %+v, want 2 answered, 1 correct, 3 points", score)
	}
}

func TestSubmitAnswerDuplicate(t *testing.T) {
	db := newTestDB(t)
	pid, sid, q1, _ := seedQuiz(t, db, 0)
	svc := NewAttemptService(db)

	if _, err := svc.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	first, err := svc.SubmitAnswer(pid, sid, q1, Submission{Letter: "B"})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if !first.Accepted || !first.IsCorrect {
		t.Fatalf("first submit = %+v, want accepted correct", first)
	}

	// Retry with a different, wrong letter: no new record, original outcome.
	second, err := svc.SubmitAnswer(pid, sid, q1, Submission{Letter: "A"})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Accepted || !second.Duplicate {
		t.Fatalf("second submit = %+v, want duplicate", second)
	}
	if !second.IsCorrect {
		t.Error("duplicate must report the persisted outcome, not regrade")
	}
	if second.RewardCode == nil || *second.RewardCode != *first.RewardCode {
		t.Error("duplicate must return the original reward code")
	}

	var count int64
	db.Model(&models.Answer{}).Where("question_id = ?", q1).Count(&count)
	if count != 1 {
		t.Errorf("answer rows = %d, want 1", count)
	}
}

func TestSubmitEmptyAnswer(t *testing.T) {
	db := newTestDB(t)
	pid, sid, q1, _ := seedQuiz(t, db, 0)
	svc := NewAttemptService(db)

	if _, err := svc.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	res, err := svc.SubmitAnswer(pid, sid, q1, Submission{Letter: "  "})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Accepted || res.Duplicate {
		t.Fatalf("empty submission = %+v, want plain re-prompt", res)
	}
	if res.State.Progress != 0 {
		t.Errorf("progress = %d after empty submission, want 0", res.State.Progress)
	}
	if res.State.NextQuestion == nil || res.State.NextQuestion.ID != q1 {
		t.Error("empty submission must re-present the same question")
	}
}

func TestSubmitPartialFillBlank(t *testing.T) {
	db := newTestDB(t)
	pid, sid, _, q2 := seedQuiz(t, db, 0)
	svc := NewAttemptService(db)

	if _, err := svc.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	// One value for a two-blank question: the missing blank is padded to an
	// empty string so the stored form stays aligned with the blank list.
	res, err := svc.SubmitAnswer(pid, sid, q2, Submission{Blanks: []string{"gold"}})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Accepted || res.IsCorrect {
		t.Fatalf("result = %+v, want accepted incorrect", res)
	}

	var answer models.Answer
	if err := db.Where("question_id = ?", q2).First(&answer).Error; err != nil {
		t.Fatalf("load answer: %v", err)
	}
	if answer.Selected != "gold|" {
		t.Errorf("stored = %q, want %q (missing blank padded to empty string)", answer.Selected, "gold|")
	}

	// Extra values beyond the defined blanks are dropped, not stored.
	db.Delete(&answer)
	res, err = svc.SubmitAnswer(pid, sid, q2, Submission{Blanks: []string{"gold", "silver", "bronze"}})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !res.IsCorrect {
		t.Error("correct values with a trailing extra must still grade correct")
	}
	answer = models.Answer{}
	db.Where("question_id = ?", q2).First(&answer)
	if answer.Selected != "gold|silver" {
		t.Errorf("stored = %q, want truncated %q", answer.Selected, "gold|silver")
	}
}

func TestSealFailureSurfaces(t *testing.T) {
	db := newTestDB(t)
	pid, sid, _, _ := seedQuiz(t, db, 10)
	svc := NewAttemptService(db)

	state, err := svc.Enter(pid, sid)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	db.Model(&models.Attempt{}).Where("id = ?", state.AttemptID).
		Update("started_at", NowEAT().Add(-11*time.Minute))

	// Block every attempt update so sealing fails.
	if err := db.Exec(
		`CREATE TRIGGER block_seal BEFORE UPDATE ON attempts
		 BEGIN SELECT RAISE(ABORT, 'seal blocked'); END`,
	).Error; err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	if _, err := svc.Enter(pid, sid); err == nil {
		t.Error("Enter must not report a completed attempt when sealing fails")
	}
	if _, err := svc.Finish(pid, sid); err == nil {
		t.Error("Finish must surface a failed seal")
	}

	var attempt models.Attempt
	db.First(&attempt, state.AttemptID)
	if attempt.CompletedAt != nil {
		t.Error("attempt sealed despite the blocked update")
	}
}

func TestSubmitForeignQuestion(t *testing.T) {
	db := newTestDB(t)
	pid, sid, _, _ := seedQuiz(t, db, 0)
	svc := NewAttemptService(db)

	if _, err := svc.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	if _, err := svc.SubmitAnswer(pid, sid, 9999, Submission{Letter: "A"}); err != ErrQuestionNotInSession {
		t.Errorf("foreign question: err = %v, want ErrQuestionNotInSession", err)
	}
}

func TestExpiredAttemptSealedLazily(t *testing.T) {
	db := newTestDB(t)
	pid, sid, q1, _ := seedQuiz(t, db, 10)
	svc := NewAttemptService(db)

	state, err := svc.Enter(pid, sid)
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	// Push the start back past the limit.
	db.Model(&models.Attempt{}).Where("id = ?", state.AttemptID).
		Update("started_at", NowEAT().Add(-11*time.Minute))

	res, err := svc.SubmitAnswer(pid, sid, q1, Submission{Letter: "B"})
	if err != nil {
		t.Fatalf("submit after expiry: %v", err)
	}
	if res.Accepted {
		t.Error("submission after expiry must not be recorded")
	}
	if !res.State.Completed {
		t.Error("expired attempt must be reported completed")
	}

	var attempt models.Attempt
	db.First(&attempt, state.AttemptID)
	if attempt.CompletedAt == nil {
		t.Error("expired attempt was not sealed")
	}

	status := svc.Status(pid, sid)
	if !status.Expired {
		t.Error("Status after sealing must report expired")
	}
}

func TestTimerStatus(t *testing.T) {
	db := newTestDB(t)
	pid, sid, _, _ := seedQuiz(t, db, 10)
	svc := NewAttemptService(db)

	if _, err := svc.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}

	status := svc.Status(pid, sid)
	if status.Expired {
		t.Error("fresh attempt reported expired")
	}
	if status.Remaining == nil || *status.Remaining <= 0 || *status.Remaining > 600 {
		t.Errorf("remaining = %v, want within (0, 600]", status.Remaining)
	}

	// Unknown session polls as expired rather than erroring.
	missing := svc.Status(pid, 9999)
	if !missing.Expired {
		t.Error("missing session must poll as expired")
	}
}

func TestFinishSealsOpenAttempt(t *testing.T) {
	db := newTestDB(t)
	pid, sid, q1, _ := seedQuiz(t, db, 0)
	svc := NewAttemptService(db)

	if _, err := svc.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if _, err := svc.SubmitAnswer(pid, sid, q1, Submission{Letter: "B"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	state, err := svc.Finish(pid, sid)
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if !state.Completed || state.Progress != 1 {
		t.Fatalf("finished state = %+v, want completed at 1/2", state)
	}

	// Finishing again is a no-op reporting the same sealed attempt.
	again, err := svc.Finish(pid, sid)
	if err != nil {
		t.Fatalf("second Finish: %v", err)
	}
	if again.AttemptID != state.AttemptID || !again.Completed {
		t.Errorf("second Finish = %+v, want same sealed attempt", again)
	}
}

func TestOverview(t *testing.T) {
	db := newTestDB(t)
	pid, sid, _, _ := seedQuiz(t, db, 10)
	svc := NewAttemptService(db)

	overview, err := svc.Overview(pid)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if len(overview) != 1 {
		t.Fatalf("sessions listed = %d, want 1", len(overview))
	}
	if overview[0].InProgress || overview[0].Completed {
		t.Error("untouched session must be neither in progress nor completed")
	}
	if overview[0].QuestionCount != 2 {
		t.Errorf("question count = %d, want 2", overview[0].QuestionCount)
	}

	if _, err := svc.Enter(pid, sid); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	overview, _ = svc.Overview(pid)
	if !overview[0].InProgress {
		t.Error("entered session must show in progress")
	}
	if overview[0].RemainingSeconds == nil {
		t.Error("timed in-progress session must carry a countdown")
	}

	if _, err := svc.Finish(pid, sid); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	overview, _ = svc.Overview(pid)
	if !overview[0].Completed || overview[0].InProgress {
		t.Error("finished session must show completed")
	}
}
