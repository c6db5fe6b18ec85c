package quiz

import (
	qz "github.com/abhisek/studykit/internal/quiz"
)

// Async results carry the session they were started for and the ticket's
// generation; anything not matching the live session is dropped.

type generatedMsg struct {
	session *qz.Session
	ticket  qz.GenerationTicket
	set     *qz.QuestionSet
	err     error
}

type progressMsg struct {
	session    *qz.Session
	generation uint64
	progress   qz.Progress
	ch         <-chan qz.Progress
}

type evaluatedMsg struct {
	session *qz.Session
	ticket  qz.EvaluationTicket
	results *qz.Results
}

type recordedMsg struct {
	session    *qz.Session
	generation uint64
	err        error
}
