package studyaids

import "github.com/abhisek/studykit/internal/llm"

// NotesSchema defines the JSON schema for study notes generation.
var NotesSchema = &llm.Schema{
	Name:        "study-notes",
	Description: "Study notes summarizing the attached document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"notes": map[string]any{
				"type":        "string",
				"description": "The notes as markdown with headings and bullet points",
			},
		},
		"required":             []any{"notes"},
		"additionalProperties": false,
	},
}

// FlashcardsSchema defines the JSON schema for flashcard generation.
var FlashcardsSchema = &llm.Schema{
	Name:        "flashcards",
	Description: "Front/back flashcards about the attached document",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"front": map[string]any{
							"type":        "string",
							"description": "A term, question or prompt",
						},
						"back": map[string]any{
							"type":        "string",
							"description": "The definition or answer, one or two sentences",
						},
					},
					"required":             []any{"front", "back"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"flashcards"},
		"additionalProperties": false,
	},
}
