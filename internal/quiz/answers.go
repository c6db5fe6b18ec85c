package quiz

import "fmt"

// AnswerTracker records the option selected for each question position.
// Positions are sparse; a question is answered iff it has an entry.
type AnswerTracker struct {
	size    int
	answers map[int]string
}

// NewAnswerTracker returns an empty tracker for a set of size questions.
func NewAnswerTracker(size int) *AnswerTracker {
	return &AnswerTracker{size: size, answers: make(map[int]string, size)}
}

// Record stores option for pos, replacing any prior answer. The option is
// not checked against the question's options.
func (t *AnswerTracker) Record(pos int, option string) error {
	if pos < 0 || pos >= t.size {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, pos, t.size)
	}
	t.answers[pos] = option
	return nil
}

// Get returns the answer at pos and whether one was recorded.
func (t *AnswerTracker) Get(pos int) (string, bool) {
	if t == nil {
		return "", false
	}
	a, ok := t.answers[pos]
	return a, ok
}

// Len returns the number of answered positions.
func (t *AnswerTracker) Len() int {
	if t == nil {
		return 0
	}
	return len(t.answers)
}

// IsComplete reports whether every position in [0,total) has an answer.
func (t *AnswerTracker) IsComplete(total int) bool {
	for pos := range total {
		if _, ok := t.Get(pos); !ok {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (t *AnswerTracker) Clone() *AnswerTracker {
	if t == nil {
		return NewAnswerTracker(0)
	}
	c := NewAnswerTracker(t.size)
	for k, v := range t.answers {
		c.answers[k] = v
	}
	return c
}
