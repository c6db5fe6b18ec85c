// Package remote talks to a studykit HTTP API server.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/abhisek/studykit/internal/api"
	"github.com/abhisek/studykit/internal/backend"
	"github.com/abhisek/studykit/internal/docstore"
	"github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/studyaids"
)

// StatusError is a non-2xx API response.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Detail)
}

// Unwrap maps document-related statuses back to the docstore sentinels.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		return docstore.ErrNotFound
	case http.StatusRequestEntityTooLarge:
		return docstore.ErrTooLarge
	case http.StatusUnsupportedMediaType:
		return docstore.ErrUnsupportedType
	}
	return nil
}

// Client implements backend.Backend over the HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ backend.Backend = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/"), http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return err
	}
	var out api.HealthResponse
	return c.do(req, &out)
}

// Upload sends a document as multipart field "file".
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (backend.Document, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return backend.Document{}, err
	}
	if _, err := part.Write(data); err != nil {
		return backend.Document{}, err
	}
	if err := mw.Close(); err != nil {
		return backend.Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return backend.Document{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out api.UploadResponse
	if err := c.do(req, &out); err != nil {
		return backend.Document{}, fmt.Errorf("upload: %w", err)
	}
	return backend.Document{ID: out.FileID, Filename: out.Filename, MIMEType: out.ContentType, Size: out.Size}, nil
}

// GenerateQuiz implements quiz.Generator. Failures are *quiz.GenerationError.
func (c *Client) GenerateQuiz(ctx context.Context, r quiz.GenerateRequest) (*quiz.QuestionSet, error) {
	var out api.QuizResponse
	err := c.postJSON(ctx, "/api/quiz", api.QuizRequest{
		FileID:     r.DocumentID,
		Count:      r.Count,
		Difficulty: string(r.Difficulty),
	}, &out)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Detail != "" {
			return nil, &quiz.GenerationError{Message: se.Detail, Err: err}
		}
		return nil, &quiz.GenerationError{Err: err}
	}

	set, err := api.QuestionSetFromResponse(out)
	if err != nil {
		return nil, &quiz.GenerationError{Message: "server returned an invalid quiz", Err: err}
	}
	if set.Len() == 0 {
		return nil, &quiz.GenerationError{Message: "server returned no questions"}
	}
	return set, nil
}

// Grade implements quiz.Grader. Failures are *quiz.GradingError; the
// evaluator fills in the position.
func (c *Client) Grade(ctx context.Context, r quiz.GradeRequest) (quiz.EvaluationResult, error) {
	var out api.EvaluateResponse
	err := c.postJSON(ctx, "/api/quiz/evaluate", api.EvaluateRequest{
		Question:      r.Question,
		UserAnswer:    r.UserAnswer,
		CorrectAnswer: r.CorrectAnswer,
	}, &out)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Detail != "" {
			return quiz.EvaluationResult{}, &quiz.GradingError{Message: se.Detail, Err: err}
		}
		return quiz.EvaluationResult{}, &quiz.GradingError{Err: err}
	}
	return quiz.EvaluationResult{IsCorrect: out.IsCorrect, Feedback: out.Feedback}, nil
}

func (c *Client) Notes(ctx context.Context, documentID string, style studyaids.Style) (string, error) {
	var out api.NotesResponse
	if err := c.postJSON(ctx, "/api/notes", api.NotesRequest{FileID: documentID, Style: string(style)}, &out); err != nil {
		return "", fmt.Errorf("notes: %w", err)
	}
	return out.Notes, nil
}

func (c *Client) Flashcards(ctx context.Context, documentID string, count int) ([]studyaids.Flashcard, error) {
	var out api.FlashcardsResponse
	if err := c.postJSON(ctx, "/api/flashcards", api.FlashcardsRequest{FileID: documentID, Count: count}, &out); err != nil {
		return nil, fmt.Errorf("flashcards: %w", err)
	}
	cards := make([]studyaids.Flashcard, len(out.Flashcards))
	for i, fc := range out.Flashcards {
		cards[i] = studyaids.Flashcard{Front: fc.Front, Back: fc.Back}
	}
	return cards, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var body api.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &body) == nil && body.Detail != "" {
			se.Detail = body.Detail
		} else {
			se.Detail = strings.TrimSpace(string(raw))
		}
		return se
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
