package services

import (
	"math/rand"

	"github.com/Levi-LMN/Trivia/internal/models"
)

// OrderQuestions produces the question sequence one attempt sees. Sections
// must already be in order_num order with their questions preloaded in
// order_num order; the baseline is plain section-then-question concatenation.
//
// When randomize is set the shuffle is seeded by the attempt ID alone, so
// every page load of the same attempt reproduces the identical order while
// distinct attempts get independent orders. The answered-set/progress logic
// in AttemptService depends on this stability.
func OrderQuestions(sections []models.Section, randomize bool, attemptID uint) []models.Question {
	var questions []models.Question
	for _, sec := range sections {
		questions = append(questions, sec.Questions...)
	}

	if randomize {
		r := rand.New(rand.NewSource(int64(attemptID)))
		r.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}

	return questions
}
