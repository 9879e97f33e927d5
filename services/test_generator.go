package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anjiri1684/learnsphere/models"
	"github.com/pkg/errors"
	"google.golang.org/genai"
	"gorm.io/datatypes"
)

const generatedQuestionCount = 3

var ErrGeneratorDisabled = errors.New("Test generation with AI is disabled because GEMINI_API_KEY is not set")

// TestGenerator drafts multiple-choice questions for a course.
type TestGenerator interface {
	GenerateQuestions(ctx context.Context, courseTitle, courseDescription string) ([]models.Question, error)
}

type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrGeneratorDisabled
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func generationPrompt(courseTitle, courseDescription string) string {
	return fmt.Sprintf(`Generate a test with %d multiple-choice questions based on the course titled %q with the description: %q.
Format the response as a JSON object with the following structure:
{
  "questions": [
    {
      "question": "Question text",
      "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
      "correctAnswer": "Correct option"
    }
  ]
}
Ensure the response is valid JSON and do not wrap the response in Markdown code blocks.`,
		generatedQuestionCount, courseTitle, courseDescription)
}

func (g *GeminiGenerator) GenerateQuestions(ctx context.Context, courseTitle, courseDescription string) ([]models.Question, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(generationPrompt(courseTitle, courseDescription)), nil)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to generate test")
	}

	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
		break
	}

	slog.Debug("gemini response received", "model", g.model, "length", text.Len())
	questions, err := ParseGeneratedQuestions(text.String())
	if err != nil {
		return nil, errors.Wrap(err, "Failed to generate test")
	}
	return questions, nil
}

type generatedTest struct {
	Questions *[]struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correctAnswer"`
	} `json:"questions"`
}

// CleanGeneratedText strips the Markdown code fence models tend to wrap JSON in.
func CleanGeneratedText(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// ParseGeneratedQuestions validates the generator's reply and converts it to
// positioned questions.
func ParseGeneratedQuestions(text string) ([]models.Question, error) {
	cleaned := CleanGeneratedText(text)

	var parsed generatedTest
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, errors.Errorf("generator did not return valid JSON: %s", cleaned)
	}
	if parsed.Questions == nil {
		return nil, errors.New(`Invalid test format: "questions" must be an array`)
	}

	questions := make([]models.Question, 0, len(*parsed.Questions))
	for i, q := range *parsed.Questions {
		question := models.Question{
			Position:      i,
			Text:          q.Question,
			Options:       datatypes.JSONSlice[string](q.Options),
			CorrectAnswer: q.CorrectAnswer,
		}
		if !question.IsWellFormed() {
			return nil, errors.New("Invalid question format: Each question must have a question, 4 options, and a correctAnswer among them")
		}
		questions = append(questions, question)
	}
	return questions, nil
}
