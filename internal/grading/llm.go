package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/abhisek/studykit/internal/llm"
	"github.com/abhisek/studykit/internal/quiz"
)

// LLMGraderConfig holds configuration for the LLM grader.
type LLMGraderConfig struct {
	MaxTokens   int
	Temperature float64
}

// DefaultLLMGraderConfig returns sensible defaults.
func DefaultLLMGraderConfig() LLMGraderConfig {
	return LLMGraderConfig{
		MaxTokens:   256,
		Temperature: 0,
	}
}

// LLMGrader asks a model to judge an answer. A literal match is accepted
// without a model call.
type LLMGrader struct {
	provider llm.Provider
	cfg      LLMGraderConfig
}

var _ quiz.Grader = (*LLMGrader)(nil)

// NewLLMGrader creates an LLM-backed grader.
func NewLLMGrader(provider llm.Provider, cfg LLMGraderConfig) *LLMGrader {
	return &LLMGrader{provider: provider, cfg: cfg}
}

// GradeSchema defines the JSON schema for grading responses.
var GradeSchema = &llm.Schema{
	Name:        "answer-grade",
	Description: "Judgement of a quiz answer against the reference answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the answer means the same as the reference answer",
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "One or two sentences of feedback addressed to the learner",
			},
		},
		"required":             []any{"is_correct", "feedback"},
		"additionalProperties": false,
	},
}

type gradeOutput struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`
}

// Grade judges one answer. Provider failures are returned as errors; the
// evaluator treats them as ungraded.
func (g *LLMGrader) Grade(ctx context.Context, req quiz.GradeRequest) (quiz.EvaluationResult, error) {
	if Match(req.UserAnswer, req.CorrectAnswer) {
		return quiz.EvaluationResult{IsCorrect: true, Feedback: FeedbackCorrect}, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeGrading)

	userMsg, err := buildGradeMessage(req)
	if err != nil {
		return quiz.EvaluationResult{}, fmt.Errorf("build grading prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      gradeSystemPrompt,
		Messages:    []llm.Message{llm.UserMessage(userMsg)},
		Schema:      GradeSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return quiz.EvaluationResult{}, fmt.Errorf("LLM grading failed: %w", err)
	}

	var raw gradeOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return quiz.EvaluationResult{}, fmt.Errorf("failed to parse grading response: %w", err)
	}

	feedback := strings.TrimSpace(raw.Feedback)
	if feedback == "" {
		feedback = FeedbackCorrect
		if !raw.IsCorrect {
			feedback = IncorrectFeedback(req.CorrectAnswer)
		}
	}
	return quiz.EvaluationResult{IsCorrect: raw.IsCorrect, Feedback: feedback}, nil
}

const gradeSystemPrompt = `You grade answers to quiz questions about a study document.

Instructions:
- Decide whether the learner's answer means the same as the reference answer.
- Ignore differences in case, punctuation and word order that do not change the meaning.
- A partially correct answer is incorrect.
- Feedback is one or two sentences. When the answer is incorrect, state the correct answer.`

var gradeUserTemplate = template.Must(template.New("grade").Parse(`Question: {{.Question}}
Reference answer: {{.CorrectAnswer}}
Learner's answer: {{.UserAnswer}}`))

func buildGradeMessage(req quiz.GradeRequest) (string, error) {
	var buf bytes.Buffer
	if err := gradeUserTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
