package docstore

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
	pngBytes  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
)

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
		wantErr  error
	}{
		{"pdf", "resume.pdf", pdfBytes, TypePDF, nil},
		{"png", "scan.png", pngBytes, TypePNG, nil},
		{"jpeg", "scan.jpg", jpegBytes, TypeJPEG, nil},
		{"sniffing beats extension", "resume.txt", pdfBytes, TypePDF, nil},
		{"gif rejected", "scan.gif", gifBytes, "", ErrUnsupportedType},
		{"gif renamed to png rejected", "scan.png", gifBytes, "", ErrUnsupportedType},
		{"plain text rejected", "notes.txt", []byte("hello world"), "", ErrUnsupportedType},
		{"empty rejected", "resume.pdf", nil, "", ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(cfg, tt.filename, tt.data)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_SizeLimit(t *testing.T) {
	cfg := DefaultConfig()

	atLimit := append(bytes.Clone(pdfBytes), make([]byte, int(cfg.MaxBytes)-len(pdfBytes))...)
	_, err := Validate(cfg, "big.pdf", atLimit)
	assert.NoError(t, err)

	overLimit := append(atLimit, 0)
	_, err = Validate(cfg, "big.pdf", overLimit)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore(DefaultConfig())
	ctx := context.Background()

	doc, err := s.Put(ctx, "/tmp/uploads/resume.pdf", pdfBytes)
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "resume.pdf", doc.Filename)
	assert.Equal(t, TypePDF, doc.MIMEType)
	assert.Equal(t, int64(len(pdfBytes)), doc.Size())

	got, err := s.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, 1, s.Len())

	other, err := s.Put(ctx, "photo.png", pngBytes)
	require.NoError(t, err)
	assert.NotEqual(t, doc.ID, other.ID)
}

func TestMemoryStore_RejectsInvalid(t *testing.T) {
	s := NewMemoryStore(DefaultConfig())
	_, err := s.Put(context.Background(), "anim.gif", gifBytes)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	s := NewMemoryStore(DefaultConfig())
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
