package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedReply = `{
  "questions": [
    {"question": "What does go vet do?", "options": ["Lints", "Builds", "Formats", "Deploys"], "correctAnswer": "Lints"},
    {"question": "Zero value of a map?", "options": ["nil", "{}", "0", "panic"], "correctAnswer": "nil"}
  ]
}`

func TestCleanGeneratedText(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanGeneratedText("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanGeneratedText("```\n{\"a\":1}```  "))
	assert.Equal(t, `{"a":1}`, CleanGeneratedText(`  {"a":1}  `))
}

func TestParseGeneratedQuestions(t *testing.T) {
	questions, err := ParseGeneratedQuestions("```json\n" + generatedReply + "\n```")
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, 0, questions[0].Position)
	assert.Equal(t, "What does go vet do?", questions[0].Text)
	assert.Equal(t, "Lints", questions[0].CorrectAnswer)
	assert.Equal(t, 1, questions[1].Position)
	assert.Equal(t, []string{"nil", "{}", "0", "panic"}, []string(questions[1].Options))
}

func TestParseGeneratedQuestions_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":          "Sure! Here are some questions.",
		"missing questions": `{"items": []}`,
		"three options":     `{"questions": [{"question": "Q", "options": ["a", "b", "c"], "correctAnswer": "a"}]}`,
		"answer not listed": `{"questions": [{"question": "Q", "options": ["a", "b", "c", "d"], "correctAnswer": "e"}]}`,
		"empty text":        `{"questions": [{"question": "", "options": ["a", "b", "c", "d"], "correctAnswer": "a"}]}`,
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseGeneratedQuestions(reply)
			assert.Error(t, err)
		})
	}
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), "", "gemini-1.5-flash")
	assert.ErrorIs(t, err, ErrGeneratorDisabled)
}
