// Package backend bundles the collaborators the quiz session and study
// screens depend on, running either in-process or against a remote server.
package backend

import (
	"context"
	"time"

	"github.com/abhisek/studykit/internal/docstore"
	"github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/studyaids"
)

// Document describes an accepted upload.
type Document struct {
	ID       string
	Filename string
	MIMEType string
	Size     int64
}

// Backend uploads documents and produces study material for them.
type Backend interface {
	quiz.Generator
	quiz.Grader

	Upload(ctx context.Context, filename string, data []byte) (Document, error)
	Notes(ctx context.Context, documentID string, style studyaids.Style) (string, error)
	Flashcards(ctx context.Context, documentID string, count int) ([]studyaids.Flashcard, error)
}

// Local runs every collaborator in-process.
type Local struct {
	quiz.Generator
	quiz.Grader

	docs docstore.Store
	aids *studyaids.Service
}

var _ Backend = (*Local)(nil)

// NewLocal creates an in-process backend.
func NewLocal(docs docstore.Store, generator quiz.Generator, grader quiz.Grader, aids *studyaids.Service) *Local {
	return &Local{Generator: generator, Grader: grader, docs: docs, aids: aids}
}

// Upload validates and stores a document.
func (l *Local) Upload(ctx context.Context, filename string, data []byte) (Document, error) {
	doc, err := l.docs.Put(ctx, filename, data)
	if err != nil {
		return Document{}, err
	}
	return Document{ID: doc.ID, Filename: doc.Filename, MIMEType: doc.MIMEType, Size: doc.Size()}, nil
}

func (l *Local) Notes(ctx context.Context, documentID string, style studyaids.Style) (string, error) {
	return l.aids.Notes(ctx, documentID, style)
}

func (l *Local) Flashcards(ctx context.Context, documentID string, count int) ([]studyaids.Flashcard, error) {
	return l.aids.Flashcards(ctx, documentID, count)
}

// DefaultTimeout bounds one generation or grading call made on behalf of
// an interactive screen.
const DefaultTimeout = 3 * time.Minute
