// Package docstore accepts uploaded study documents and hands them back to
// content generators by id.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Accepted content types.
const (
	TypePDF  = "application/pdf"
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
)

var (
	ErrEmpty           = errors.New("uploaded file is empty")
	ErrTooLarge        = errors.New("uploaded file is too large")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNotFound        = errors.New("document not found")
)

// extensionTypes is the fallback when content sniffing is inconclusive.
var extensionTypes = map[string]string{
	".pdf":  TypePDF,
	".png":  TypePNG,
	".jpg":  TypeJPEG,
	".jpeg": TypeJPEG,
}

// Config controls upload limits.
type Config struct {
	MaxBytes int64
}

// DefaultConfig allows uploads up to 10 MiB.
func DefaultConfig() Config {
	return Config{MaxBytes: 10 << 20}
}

// Document is an accepted upload.
type Document struct {
	ID         string
	Filename   string
	MIMEType   string
	Data       []byte
	UploadedAt time.Time
}

// Size returns the document size in bytes.
func (d *Document) Size() int64 { return int64(len(d.Data)) }

// Reader gives generators access to uploaded documents.
type Reader interface {
	Get(ctx context.Context, id string) (*Document, error)
}

// Store accepts uploads and serves them back by id.
type Store interface {
	Reader
	Put(ctx context.Context, filename string, data []byte) (*Document, error)
}

// Validate checks size and type and returns the detected content type.
func Validate(cfg Config, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if cfg.MaxBytes > 0 && int64(len(data)) > cfg.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds %d MB", ErrTooLarge, len(data), cfg.MaxBytes>>20)
	}

	detected := mimetype.Detect(data)
	for _, t := range []string{TypePDF, TypePNG, TypeJPEG} {
		if detected.Is(t) {
			return t, nil
		}
	}

	// Sniffing only falls back to the extension for generic content.
	if detected.Is("application/octet-stream") || detected.Is("text/plain") {
		if t, ok := extensionTypes[strings.ToLower(filepath.Ext(filename))]; ok {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s (allowed: pdf, png, jpeg)", ErrUnsupportedType, detected.String())
}

// MemoryStore keeps documents in memory for the life of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]*Document
	config Config
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(cfg Config) *MemoryStore {
	return &MemoryStore{
		docs:   make(map[string]*Document),
		config: cfg,
		now:    time.Now,
	}
}

// Put validates data and stores it under a new id.
func (s *MemoryStore) Put(ctx context.Context, filename string, data []byte) (*Document, error) {
	mimeType, err := Validate(s.config, filename, data)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		ID:         uuid.New().String(),
		Filename:   filepath.Base(filename),
		MIMEType:   mimeType,
		Data:       append([]byte(nil), data...),
		UploadedAt: s.now(),
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"filename":    doc.Filename,
		"mime_type":   doc.MIMEType,
		"size":        doc.Size(),
	}).Info("document stored")

	return doc, nil
}

// Get returns the document with id.
func (s *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

// Len returns the number of stored documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
