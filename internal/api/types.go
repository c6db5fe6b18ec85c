package api

// Wire types of the HTTP API. The remote client decodes the same types.

// UploadResponse is returned by POST /api/upload.
type UploadResponse struct {
	FileID      string `json:"file_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// NotesRequest is the body of POST /api/notes.
type NotesRequest struct {
	FileID string `json:"file_id"`
	Style  string `json:"style,omitempty"`
}

// NotesResponse is returned by POST /api/notes.
type NotesResponse struct {
	Notes string `json:"notes"`
}

// FlashcardsRequest is the body of POST /api/flashcards.
type FlashcardsRequest struct {
	FileID string `json:"file_id"`
	Count  int    `json:"count,omitempty"`
}

// Flashcard is one card in FlashcardsResponse.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardsResponse is returned by POST /api/flashcards.
type FlashcardsResponse struct {
	Flashcards []Flashcard `json:"flashcards"`
}

// QuizRequest is the body of POST /api/quiz.
type QuizRequest struct {
	FileID     string `json:"file_id"`
	Count      int    `json:"count,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// QuizQuestion is one question in QuizResponse.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuizResponse is returned by POST /api/quiz.
type QuizResponse struct {
	Questions []QuizQuestion `json:"questions"`
}

// EvaluateRequest is the body of POST /api/quiz/evaluate.
type EvaluateRequest struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// EvaluateResponse is returned by POST /api/quiz/evaluate.
type EvaluateResponse struct {
	IsCorrect bool    `json:"is_correct"`
	Score     float64 `json:"score"`
	Feedback  string  `json:"feedback"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is returned by GET / and GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
}
