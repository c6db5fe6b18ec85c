package quizgen

import "github.com/abhisek/studykit/internal/llm"

// QuizSchema defines the JSON schema for quiz generation responses.
// Item-level rules (four distinct options, index range) are enforced by
// the generator's checks so one bad item does not discard the whole quiz.
var QuizSchema = &llm.Schema{
	Name:        "quiz",
	Description: "Multiple-choice questions about the attached document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question shown to the user",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 distinct answer options",
						},
						"correct_answer": map[string]any{
							"type":        "integer",
							"description": "0-based index of the correct option",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences explaining why the correct option is right",
						},
					},
					"required":             []any{"question", "options", "correct_answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
