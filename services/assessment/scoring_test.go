package assessment

import (
	"testing"

	"trainhub/models"

	"github.com/stretchr/testify/assert"
)

func questions(answers ...string) []models.Question {
	qs := make([]models.Question, len(answers))
	for i, a := range answers {
		qs[i] = models.Question{Model: models.Model{ID: uint(i + 1)}, CorrectAnswer: a}
	}
	return qs
}

func TestScore(t *testing.T) {
	tests := []struct {
		name        string
		questions   []models.Question
		answers     map[string]string
		wantCorrect int
		wantScore   int
	}{
		{"no questions", nil, map[string]string{"1": "a"}, 0, 0},
		{"all correct", questions("a", "b"), map[string]string{"1": "a", "2": "b"}, 2, 100},
		{"one of three rounds", questions("a", "b", "c"), map[string]string{"1": "a"}, 1, 33},
		{"two of three rounds up", questions("a", "b", "c"), map[string]string{"1": "a", "2": "b"}, 2, 67},
		{"case and spaces ignored", questions("True"), map[string]string{"1": " true "}, 1, 100},
		{"unknown keys ignored", questions("a"), map[string]string{"9": "a"}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			correct, score := Score(tt.questions, tt.answers)
			assert.Equal(t, tt.wantCorrect, correct)
			assert.Equal(t, tt.wantScore, score)
		})
	}
}

func TestPassedUsesDefaultPassMark(t *testing.T) {
	a := &models.Assessment{}
	assert.False(t, Passed(a, 69))
	assert.True(t, Passed(a, 70))

	mark := 50
	a.PassingScore = &mark
	assert.True(t, Passed(a, 50))
	assert.False(t, Passed(a, 49))
}

func TestAttemptsLeft(t *testing.T) {
	assert.Nil(t, AttemptsLeft(&models.Assessment{MaxRetakes: 0}, 5))
	left := AttemptsLeft(&models.Assessment{MaxRetakes: 3}, 1)
	if assert.NotNil(t, left) {
		assert.Equal(t, 2, *left)
	}
	assert.Equal(t, 0, *AttemptsLeft(&models.Assessment{MaxRetakes: 3}, 7))
}
