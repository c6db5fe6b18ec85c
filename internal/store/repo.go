package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls for one purpose.
type LLMUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// GradedAnswerData is the outcome for one question of an evaluated quiz.
// Graded is false when the grader failed for that position.
type GradedAnswerData struct {
	Position      int
	Question      string
	UserAnswer    string
	CorrectAnswer string
	Graded        bool
	Correct       bool
	Feedback      string
}

// GradedAnswer is a stored graded answer.
type GradedAnswer struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AttemptID string
	GradedAnswerData
}

// QuizAttemptData summarizes one evaluated quiz. Answers are written in
// the same transaction as the attempt.
type QuizAttemptData struct {
	AttemptID     string
	DocumentID    string
	DocumentName  string
	Difficulty    string
	QuestionCount int
	CorrectCount  int
	UngradedCount int
	Percentage    float64
	Answers       []GradedAnswerData
}

// QuizAttempt is a stored quiz attempt. Answers are not loaded by list
// queries; use QuizAttemptAnswers.
type QuizAttempt struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizAttemptData
}

// LLMEventRecorder records LLM API calls.
type LLMEventRecorder interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	LLMEventRecorder

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)

	// AppendQuizAttempt records an evaluated quiz and its answers.
	AppendQuizAttempt(ctx context.Context, data QuizAttemptData) error

	// QueryQuizAttempts returns quiz attempts newest first.
	QueryQuizAttempts(ctx context.Context, opts QueryOpts) ([]QuizAttempt, error)

	// QuizAttemptAnswers returns the answers of one attempt ordered by position.
	QuizAttemptAnswers(ctx context.Context, attemptID string) ([]GradedAnswer, error)
}
