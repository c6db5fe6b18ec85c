// Package studyaids generates study notes and flashcards over uploaded
// documents.
package studyaids

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/studykit/internal/docstore"
	"github.com/abhisek/studykit/internal/llm"
	"github.com/abhisek/studykit/internal/logging"
)

// Service generates notes and flashcards.
type Service struct {
	provider llm.Provider
	docs     docstore.Reader
	cfg      Config
}

// NewService creates a study aid service reading documents from docs.
func NewService(provider llm.Provider, docs docstore.Reader, cfg Config) *Service {
	return &Service{provider: provider, docs: docs, cfg: cfg}
}

type notesOutput struct {
	Notes string `json:"notes"`
}

type flashcardsOutput struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// Notes returns study notes for a document.
func (s *Service) Notes(ctx context.Context, documentID string, style Style) (string, error) {
	if style == "" {
		style = StyleConcise
	}
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return "", err
	}

	userMsg, err := render(notesUserTemplate, notesPromptData{Filename: doc.Filename, Style: style})
	if err != nil {
		return "", fmt.Errorf("build notes prompt: %w", err)
	}

	maxTokens := s.cfg.NotesMaxTokens
	if style == StyleDetailed {
		maxTokens = s.cfg.DetailedNotesMaxTokens
	}

	var out notesOutput
	if err := s.generate(llm.WithPurpose(ctx, llm.PurposeNotes), doc, notesSystemPrompt, userMsg, NotesSchema, maxTokens, &out); err != nil {
		return "", fmt.Errorf("notes generation: %w", err)
	}

	notes := strings.TrimSpace(out.Notes)
	if len(notes) < minNotesLen {
		return "", fmt.Errorf("notes generation: %w", ErrShortOutput)
	}
	return notes, nil
}

// Flashcards returns up to count flashcards for a document. Cards with an
// empty side are dropped.
func (s *Service) Flashcards(ctx context.Context, documentID string, count int) ([]Flashcard, error) {
	count = ClampFlashcards(count)
	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	userMsg, err := render(flashcardsUserTemplate, flashcardsPromptData{Filename: doc.Filename, Count: count})
	if err != nil {
		return nil, fmt.Errorf("build flashcards prompt: %w", err)
	}

	var out flashcardsOutput
	maxTokens := 256 + s.cfg.TokensPerFlashcard*count
	if err := s.generate(llm.WithPurpose(ctx, llm.PurposeFlashcards), doc, flashcardsSystemPrompt, userMsg, FlashcardsSchema, maxTokens, &out); err != nil {
		return nil, fmt.Errorf("flashcards generation: %w", err)
	}

	cards := make([]Flashcard, 0, count)
	for _, c := range out.Flashcards {
		if len(cards) == count {
			break
		}
		c.Front = strings.TrimSpace(c.Front)
		c.Back = strings.TrimSpace(c.Back)
		if c.Front == "" || c.Back == "" {
			logging.FromContext(ctx).WithField("document_id", documentID).Warn("flashcard with empty side dropped")
			continue
		}
		cards = append(cards, c)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("flashcards generation: %w", ErrShortOutput)
	}
	return cards, nil
}

func (s *Service) generate(ctx context.Context, doc *docstore.Document, system, userMsg string, schema *llm.Schema, maxTokens int, out any) error {
	req := llm.Request{
		System: system,
		Messages: []llm.Message{
			llm.UserMessage(userMsg, llm.Attachment{Name: doc.Filename, MIMEType: doc.MIMEType, Data: doc.Data}),
		},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
