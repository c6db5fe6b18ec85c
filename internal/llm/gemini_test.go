package llm

import (
	"errors"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiContents_Attachments(t *testing.T) {
	contents, err := buildGeminiContents([]Message{
		UserMessage("Quiz me.", Attachment{MIMEType: "application/pdf", Data: []byte("%PDF-1.7")}),
		{Role: RoleAssistant, Content: "ok"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 2 {
		t.Fatalf("expected 2 contents, got %d", len(contents))
	}
	user := contents[0]
	if user.Role != "user" || len(user.Parts) != 2 {
		t.Fatalf("user content = %+v", user)
	}
	if user.Parts[0].InlineData == nil || user.Parts[0].InlineData.MIMEType != "application/pdf" {
		t.Fatalf("expected inline pdf first, got %+v", user.Parts[0])
	}
	if user.Parts[1].Text != "Quiz me." {
		t.Fatalf("expected text second, got %+v", user.Parts[1])
	}
	if contents[1].Role != "model" {
		t.Fatalf("assistant role = %q, want model", contents[1].Role)
	}
}

func TestBuildGeminiContents_UnsupportedAttachment(t *testing.T) {
	_, err := buildGeminiContents([]Message{
		UserMessage("Quiz me.", Attachment{MIMEType: "image/gif", Data: []byte("GIF89a")}),
	})
	var unsupported *ErrUnsupportedAttachment
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected *ErrUnsupportedAttachment, got %v", err)
	}
	if unsupported.Provider != "gemini" || unsupported.MIMEType != "image/gif" {
		t.Fatalf("unexpected error fields: %+v", unsupported)
	}
}

func TestGeminiConfig(t *testing.T) {
	def := map[string]any{
		"type":     "object",
		"required": []any{"questions"},
	}
	cfg := geminiConfig(Request{
		System:      "You write quizzes.",
		MaxTokens:   2048,
		Temperature: 0.4,
		Schema:      &Schema{Name: "quiz-questions", Definition: def},
	})

	if cfg.MaxOutputTokens != 2048 {
		t.Fatalf("MaxOutputTokens = %d, want 2048", cfg.MaxOutputTokens)
	}
	if cfg.Temperature == nil || *cfg.Temperature != float32(0.4) {
		t.Fatalf("Temperature = %v, want 0.4", cfg.Temperature)
	}
	if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "You write quizzes." {
		t.Fatalf("SystemInstruction = %+v", cfg.SystemInstruction)
	}
	if cfg.ResponseMIMEType != "application/json" {
		t.Fatalf("ResponseMIMEType = %q", cfg.ResponseMIMEType)
	}
	got, ok := cfg.ResponseJsonSchema.(map[string]any)
	if !ok || got["type"] != "object" {
		t.Fatalf("ResponseJsonSchema = %#v, want the schema definition", cfg.ResponseJsonSchema)
	}

	plain := geminiConfig(Request{MaxTokens: 100})
	if plain.Temperature != nil || plain.ResponseMIMEType != "" || plain.ResponseJsonSchema != nil {
		t.Fatalf("plain config should not set temperature or schema: %+v", plain)
	}
}

func TestGeminiStopReason(t *testing.T) {
	tests := []struct {
		reason genai.FinishReason
		want   string
	}{
		{genai.FinishReasonStop, "end"},
		{genai.FinishReasonMaxTokens, "max_tokens"},
		{genai.FinishReasonSafety, "filtered"},
		{genai.FinishReasonRecitation, "filtered"},
	}
	for _, tt := range tests {
		resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: tt.reason}}}
		if got := geminiStopReason(resp); got != tt.want {
			t.Errorf("geminiStopReason(%s) = %q, want %q", tt.reason, got, tt.want)
		}
	}
	if got := geminiStopReason(&genai.GenerateContentResponse{}); got != "end" {
		t.Errorf("no candidates: got %q, want end", got)
	}
}
