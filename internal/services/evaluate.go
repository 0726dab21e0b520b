package services

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/Levi-LMN/Trivia/internal/models"

	"github.com/google/uuid"
)

// Submission is the typed form of a raw answer, one variant per question
// type. It is converted to the flat stored string only at the storage edge.
type Submission struct {
	Type    string
	Letter  string   // single: one option letter
	Letters []string // multi: selected option letters
	Blanks  []string // fill_blank: one value per blank, in blank order
}

// Empty reports whether there is nothing to grade: a blank letter, no
// selected letters, or every blank left empty. Empty submissions are
// rejected before evaluation and leave the attempt unchanged.
func (s Submission) Empty() bool {
	switch s.Type {
	case models.QuestionTypeMulti:
		for _, l := range s.Letters {
			if strings.TrimSpace(l) != "" {
				return false
			}
		}
		return true
	case models.QuestionTypeFillBlank:
		for _, b := range s.Blanks {
			if strings.TrimSpace(b) != "" {
				return false
			}
		}
		return true
	default:
		return strings.TrimSpace(s.Letter) == ""
	}
}

// CheckAnswer grades a submission against a question and returns the value
// to persist. Pure: persistence and reward codes are the caller's job.
//
//	single:     case-insensitive letter match; stores the upper-cased letter
//	multi:      order-insensitive set match; stores sorted "A,C" form
//	fill_blank: position-by-position, trimmed, case-sensitive; stores the
//	            raw pipe-joined submission unmodified
//
// An unknown type tag never grades correct.
func CheckAnswer(q *models.Question, sub Submission) (bool, string) {
	correct := strings.TrimSpace(q.CorrectAnswer)

	switch q.Type {
	case models.QuestionTypeSingle:
		sel := strings.ToUpper(strings.TrimSpace(sub.Letter))
		return sel == strings.ToUpper(correct), sel

	case models.QuestionTypeMulti:
		sel := normalizeMulti(strings.Join(sub.Letters, ","))
		return sel == normalizeMulti(correct), sel

	case models.QuestionTypeFillBlank:
		raw := strings.Join(sub.Blanks, "|")
		selParts := splitTrim(raw, "|")
		corrParts := splitTrim(correct, "|")
		if len(selParts) != len(corrParts) {
			return false, raw
		}
		for i := range corrParts {
			if selParts[i] != corrParts[i] {
				return false, raw
			}
		}
		return true, raw

	default:
		return false, sub.Letter
	}
}

// normalizeMulti sorts comma-separated letters for comparison: "C,A" -> "A,C".
func normalizeMulti(s string) string {
	parts := make([]string, 0, 4)
	for _, p := range strings.Split(s, ",") {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			parts = append(parts, p)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// padBlanks resizes a fill_blank submission to one value per defined blank:
// missing trailing blanks become empty strings, extras are dropped. Keeps the
// stored pipe-joined form aligned with the question's blank list.
func padBlanks(blanks []string, n int) []string {
	out := make([]string, n)
	copy(out, blanks)
	return out
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// GenerateRewardCode derives the 8-character receipt shown for a correct
// answer. Collisions are acceptable; the code is cosmetic, not an identifier.
func GenerateRewardCode(participantID, questionID uint) string {
	raw := fmt.Sprintf("%d-%d-%s", participantID, questionID, uuid.NewString())
	sum := md5.Sum([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:8]
}
