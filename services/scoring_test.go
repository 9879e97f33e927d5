package services

import (
	"math/rand"
	"testing"

	"github.com/anjiri1684/learnsphere/models"
	"github.com/stretchr/testify/assert"
)

func questionsWithAnswers(correct ...string) []models.Question {
	questions := make([]models.Question, len(correct))
	for i, answer := range correct {
		questions[i] = models.Question{
			Position:      i,
			Text:          "Q",
			Options:       []string{answer, "W", "X", "Y"},
			CorrectAnswer: answer,
		}
	}
	return questions
}

func TestScore_CountsPositionalMatches(t *testing.T) {
	score, stored := Score(questionsWithAnswers("A", "B", "C"), []string{"A", "X", "C"})

	assert.Equal(t, 2, score)
	assert.Equal(t, []string{"A", "X", "C"}, stored)
}

func TestScore_EmptyTestIgnoresAnswers(t *testing.T) {
	score, stored := Score(nil, []string{"A", "B"})

	assert.Equal(t, 0, score)
	assert.NotNil(t, stored)
	assert.Empty(t, stored)

	score, stored = Score([]models.Question{}, []string{})
	assert.Equal(t, 0, score)
	assert.Empty(t, stored)
}

func TestScore_IsCaseSensitive(t *testing.T) {
	score, _ := Score(questionsWithAnswers("Paris"), []string{"paris"})
	assert.Equal(t, 0, score)
}

func TestScore_LengthMismatch(t *testing.T) {
	questions := questionsWithAnswers("A", "B", "C")

	score, stored := Score(questions, []string{"A"})
	assert.Equal(t, 1, score)
	assert.Equal(t, []string{"A"}, stored)

	score, stored = Score(questions, []string{"A", "B", "C", "D", "E"})
	assert.Equal(t, 3, score)
	assert.Len(t, stored, 5)

	score, stored = Score(questions, nil)
	assert.Equal(t, 0, score)
	assert.NotNil(t, stored)
}

func TestScore_MatchesReferenceSum(t *testing.T) {
	alphabet := []string{"A", "B", "C", "D"}
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(10)
		correct := make([]string, n)
		for i := range correct {
			correct[i] = alphabet[rng.Intn(len(alphabet))]
		}
		answers := make([]string, rng.Intn(12))
		for i := range answers {
			answers[i] = alphabet[rng.Intn(len(alphabet))]
		}

		expected := 0
		for i := 0; i < n; i++ {
			if i < len(answers) && answers[i] == correct[i] {
				expected++
			}
		}

		score, _ := Score(questionsWithAnswers(correct...), answers)
		assert.Equal(t, expected, score)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, n)
	}
}
