package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"entgo.io/ent/dialect/sql/schema"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
	if s.EventRepo() == nil {
		t.Fatal("expected non-nil event repo")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestWithPragmas(t *testing.T) {
	got := withPragmas("/tmp/studykit.db")
	if !strings.HasPrefix(got, "/tmp/studykit.db?_pragma=") {
		t.Fatalf("withPragmas = %q", got)
	}
	if n := strings.Count(got, "_pragma="); n != len(pragmas) {
		t.Fatalf("expected %d pragmas, got %d in %q", len(pragmas), n, got)
	}

	uri := withPragmas("file:test?mode=memory")
	if !strings.HasPrefix(uri, "file:test?mode=memory&_pragma=") {
		t.Fatalf("existing query not extended: %q", uri)
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"llm_request_events", "quiz_attempts", "graded_answers", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sc, err := newSequenceCounter(s.DB())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}

	first, err := sc.Reserve(ctx, 3)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if first != 6 {
		t.Errorf("reserve first = %d, want 6", first)
	}
	next, err := sc.Next(ctx)
	if err != nil {
		t.Fatalf("next after reserve: %v", err)
	}
	if next != 9 {
		t.Errorf("next after reserve = %d, want 9", next)
	}

	if _, err := sc.Reserve(ctx, 0); err == nil {
		t.Error("expected error reserving zero numbers")
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "quiz-generation", InputTokens: 1200, OutputTokens: 300, LatencyMs: 900, Success: true, RequestBody: "[user]\nmake a quiz", ResponseBody: `{"questions":[]}`},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "grading", InputTokens: 100, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "grading", InputTokens: 50, OutputTokens: 0, LatencyMs: 300, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	if got[0].ErrorMessage != "rate limited" || got[0].Success {
		t.Errorf("newest event = %+v, want the failed grading call", got[0])
	}
	if got[0].Sequence <= got[1].Sequence || got[1].Sequence <= got[2].Sequence {
		t.Errorf("sequences not descending: %d, %d, %d", got[0].Sequence, got[1].Sequence, got[2].Sequence)
	}
	if got[2].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited events = %d, want 1", len(limited))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: got[2].Sequence})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("events after first = %d, want 2", len(after))
	}

	one, err := repo.GetLLMEvent(ctx, got[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if one == nil || one.RequestBody != "[user]\nmake a quiz" || one.ResponseBody != `{"questions":[]}` {
		t.Errorf("get = %+v, want bodies preserved", one)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "grading", InputTokens: 100, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "grading", InputTokens: 300, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "notes", InputTokens: 1000, OutputTokens: 500, LatencyMs: 2000, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "notes", InputTokens: 10, LatencyMs: 50, Success: false},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	grading := byPurpose[0]
	if grading.Purpose != "grading" || grading.Calls != 2 || grading.InputTokens != 400 || grading.OutputTokens != 60 || grading.AvgLatencyMs != 200 {
		t.Errorf("grading usage = %+v", grading)
	}
	if byPurpose[1].Purpose != "notes" || byPurpose[1].Calls != 2 {
		t.Errorf("notes usage = %+v", byPurpose[1])
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("models = %d, want 2", len(byModel))
	}
	// Failed calls are not billed.
	if byModel[0].Model != "gemini-2.5-flash" || byModel[0].Calls != 1 || byModel[0].InputTokens != 1000 {
		t.Errorf("gemini usage = %+v", byModel[0])
	}
	if byModel[1].Model != "gpt-4o-mini" || byModel[1].Calls != 2 {
		t.Errorf("openai usage = %+v", byModel[1])
	}
}

func TestQuizAttempts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	first := QuizAttemptData{
		AttemptID:     "a-1",
		DocumentID:    "doc-1",
		DocumentName:  "resume.pdf",
		Difficulty:    "medium",
		QuestionCount: 3,
		CorrectCount:  1,
		UngradedCount: 1,
		Percentage:    33.3,
		Answers: []GradedAnswerData{
			{Position: 0, Question: "Q1", UserAnswer: "A", CorrectAnswer: "A", Graded: true, Correct: true, Feedback: "Correct!"},
			{Position: 1, Question: "Q2", UserAnswer: "B", CorrectAnswer: "C", Graded: true, Feedback: "Incorrect. The correct answer is: C"},
			{Position: 2, Question: "Q3", UserAnswer: "D", CorrectAnswer: "D"},
		},
	}
	if err := repo.AppendQuizAttempt(ctx, first); err != nil {
		t.Fatalf("append first: %v", err)
	}
	if err := repo.AppendQuizAttempt(ctx, QuizAttemptData{
		AttemptID: "a-2", DocumentID: "doc-1", Difficulty: "hard", QuestionCount: 1, CorrectCount: 1, Percentage: 100,
	}); err != nil {
		t.Fatalf("append second: %v", err)
	}

	attempts, err := repo.QueryQuizAttempts(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(attempts))
	}
	if attempts[0].AttemptID != "a-2" {
		t.Errorf("newest attempt = %q, want a-2", attempts[0].AttemptID)
	}
	old := attempts[1]
	if old.DocumentName != "resume.pdf" || old.UngradedCount != 1 || old.Percentage != 33.3 || old.Difficulty != "medium" {
		t.Errorf("first attempt = %+v", old)
	}
	// The attempt and its three answers consume consecutive sequence numbers.
	if attempts[0].Sequence != old.Sequence+4 {
		t.Errorf("second attempt sequence = %d, want %d", attempts[0].Sequence, old.Sequence+4)
	}

	answers, err := repo.QuizAttemptAnswers(ctx, "a-1")
	if err != nil {
		t.Fatalf("answers: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(answers))
	}
	for i, a := range answers {
		if a.Position != i {
			t.Errorf("answers[%d].Position = %d", i, a.Position)
		}
		if a.AttemptID != "a-1" {
			t.Errorf("answers[%d].AttemptID = %q", i, a.AttemptID)
		}
	}
	if !answers[0].Correct || !answers[0].Graded {
		t.Errorf("answer 0 = %+v, want graded correct", answers[0])
	}
	if answers[2].Graded {
		t.Errorf("answer 2 = %+v, want ungraded", answers[2])
	}

	none, err := repo.QuizAttemptAnswers(ctx, "a-2")
	if err != nil {
		t.Fatalf("answers for a-2: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("answers for a-2 = %d, want 0", len(none))
	}
}

func TestQuizAttemptRejectsDuplicateID(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := QuizAttemptData{AttemptID: "dup", DocumentID: "d", Difficulty: "easy", QuestionCount: 1}
	if err := repo.AppendQuizAttempt(ctx, data); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := repo.AppendQuizAttempt(ctx, data); err == nil {
		t.Fatal("expected unique constraint error")
	}
	if err := repo.AppendQuizAttempt(ctx, QuizAttemptData{}); err == nil {
		t.Fatal("expected error for empty attempt id")
	}
}

func TestQueryOptsTimeWindow(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "notes", Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("events from the future = %d, want 0", len(future))
	}

	past, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(past) != 1 {
		t.Errorf("events in the last hour = %d, want 1", len(past))
	}
}

func TestTablesFromSchema(t *testing.T) {
	columns := func(cols []*schema.Column) map[string]*schema.Column {
		m := make(map[string]*schema.Column, len(cols))
		for _, c := range cols {
			m[c.Name] = c
		}
		return m
	}

	attempts := columns(QuizAttemptsTable.Columns)
	for _, name := range []string{"id", "sequence", "timestamp", "attempt_id", "percentage"} {
		if attempts[name] == nil {
			t.Errorf("quiz_attempts missing column %s", name)
		}
	}
	if !attempts["attempt_id"].Unique {
		t.Error("attempt_id should be unique")
	}
	if attempts["ungraded_count"].Default != 0 {
		t.Errorf("ungraded_count default = %v, want 0", attempts["ungraded_count"].Default)
	}
	if attempts["timestamp"].Default != nil {
		t.Errorf("timestamp default = %v, want none", attempts["timestamp"].Default)
	}
	if QuizAttemptsTable.PrimaryKey[0].Name != "id" {
		t.Errorf("primary key = %s, want id", QuizAttemptsTable.PrimaryKey[0].Name)
	}

	var found bool
	for _, idx := range GradedAnswersTable.Indexes {
		if idx.Name == "graded_answers_attempt_id_position" {
			found = idx.Unique && len(idx.Columns) == 2
		}
	}
	if !found {
		t.Error("graded_answers needs a unique (attempt_id, position) index")
	}
}
