package assessment

import (
	"math"
	"strconv"
	"strings"

	"trainhub/models"
)

// DefaultPassMark applies when an assessment has no passing score.
const DefaultPassMark = 70

// Score compares answers, keyed by question id, with the correct answers and
// returns the correct count and round(correct/N*100). No questions score 0.
func Score(questions []models.Question, answers map[string]string) (int, int) {
	if len(questions) == 0 {
		return 0, 0
	}
	correct := 0
	for _, q := range questions {
		given, ok := answers[strconv.FormatUint(uint64(q.ID), 10)]
		if !ok {
			continue
		}
		if sameAnswer(given, q.CorrectAnswer) {
			correct++
		}
	}
	score := int(math.Round(float64(correct) / float64(len(questions)) * 100))
	return correct, score
}

func sameAnswer(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// PassMark returns the passing score of a, or DefaultPassMark when unset.
func PassMark(a *models.Assessment) int {
	if a.PassingScore != nil {
		return *a.PassingScore
	}
	return DefaultPassMark
}

// Passed applies the pass mark to a score.
func Passed(a *models.Assessment, score int) bool {
	return score >= PassMark(a)
}

// AttemptsLeft returns nil when retakes are unlimited.
func AttemptsLeft(a *models.Assessment, used int64) *int {
	if a.MaxRetakes <= 0 {
		return nil
	}
	left := a.MaxRetakes - int(used)
	if left < 0 {
		left = 0
	}
	return &left
}
