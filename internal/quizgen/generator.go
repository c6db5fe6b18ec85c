// Package quizgen generates multiple-choice quizzes over uploaded documents
// using an LLM provider.
package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/studykit/internal/docstore"
	"github.com/abhisek/studykit/internal/llm"
	"github.com/abhisek/studykit/internal/logging"
	"github.com/abhisek/studykit/internal/quiz"
)

// Generator implements quiz.Generator using the LLM provider.
type Generator struct {
	provider llm.Provider
	docs     docstore.Reader
	config   Config
}

var _ quiz.Generator = (*Generator)(nil)

// New creates a Generator that reads documents from docs.
func New(provider llm.Provider, docs docstore.Reader, cfg Config) *Generator {
	return &Generator{provider: provider, docs: docs, config: cfg}
}

// quizOutput is the raw LLM response before checks.
type quizOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// GenerateQuiz produces up to req.Count questions about the document.
// Questions failing a check are dropped; an empty result is a
// *quiz.GenerationError.
func (g *Generator) GenerateQuiz(ctx context.Context, req quiz.GenerateRequest) (*quiz.QuestionSet, error) {
	count := quiz.DefaultQuestions
	if req.Count != 0 {
		count = quiz.ClampCount(req.Count)
	}
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = quiz.DifficultyMedium
	}

	doc, err := g.docs.Get(ctx, req.DocumentID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, &quiz.GenerationError{Message: "document not found", Err: err}
		}
		return nil, &quiz.GenerationError{Message: "load document", Err: err}
	}

	log := logging.FromContext(ctx).WithFields(logrus.Fields{
		"document_id": doc.ID,
		"count":       count,
		"difficulty":  difficulty,
	})
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGeneration)

	llmReq := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			llm.UserMessage(buildUserMessage(doc.Filename, count, difficulty), llm.Attachment{
				Name:     doc.Filename,
				MIMEType: doc.MIMEType,
				Data:     doc.Data,
			}),
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.maxTokens(count),
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, &quiz.GenerationError{Message: "LLM generation failed", Err: err}
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &quiz.GenerationError{Message: "failed to parse LLM response", Err: err}
	}

	questions := g.collect(log, raw.Questions, count)
	if len(questions) == 0 {
		return nil, &quiz.GenerationError{Message: "no valid questions in response"}
	}
	if len(questions) < count {
		log.WithField("valid", len(questions)).Warn("quiz shorter than requested")
	}

	set, err := quiz.NewQuestionSet(questions)
	if err != nil {
		return nil, &quiz.GenerationError{Message: "assemble quiz", Err: err}
	}
	return set, nil
}

// collect converts raw items, runs the checks, drops repeats and stops at
// count.
func (g *Generator) collect(log logrus.FieldLogger, items []questionOutput, count int) []quiz.Question {
	var out []quiz.Question
	seen := make(map[string]bool, len(items))

	for i, item := range items {
		if len(out) == count {
			break
		}
		q := quiz.Question{
			Text:         strings.TrimSpace(item.Question),
			Options:      trimAll(item.Options),
			CorrectIndex: item.CorrectAnswer,
			Explanation:  strings.TrimSpace(item.Explanation),
		}
		if cerr := g.check(q); cerr != nil {
			log.WithFields(logrus.Fields{"item": i, "check": cerr.Check}).Warn(cerr.Message)
			continue
		}
		key := strings.ToLower(q.Text)
		if seen[key] {
			log.WithField("item", i).Warn("duplicate question dropped")
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}

func (g *Generator) check(q quiz.Question) *CheckError {
	for _, c := range g.config.Checks {
		if err := c.Check(q); err != nil {
			return err
		}
	}
	return nil
}

func trimAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
