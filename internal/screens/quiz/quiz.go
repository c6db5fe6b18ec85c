package quiz

import (
	"context"
	"errors"
	"strconv"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/studykit/internal/backend"
	qz "github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/screen"
	"github.com/abhisek/studykit/internal/ui/components"
	"github.com/abhisek/studykit/internal/ui/layout"
	"github.com/abhisek/studykit/internal/ui/theme"
)

// Setup panel fields.
const (
	fieldCount = iota
	fieldDifficulty
	fieldGenerate
	fieldTotal
)

// QuizScreen drives one qz.Session: setup, answering, evaluation and review.
type QuizScreen struct {
	env     *screen.Env
	session *qz.Session

	count      int
	difficulty qz.Difficulty
	setup      bool
	focus      int
	autoStart  bool

	choices   components.Choices
	notice    string
	attempted int
	total     int
	spinner   spinner.Model
	cancel    context.CancelFunc

	recorded  bool
	recordErr error
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// Option configures a QuizScreen.
type Option func(*QuizScreen)

// WithSettings presets the question count and difficulty.
func WithSettings(count int, difficulty qz.Difficulty) Option {
	return func(s *QuizScreen) {
		s.count = qz.ClampCount(count)
		if difficulty != "" {
			s.difficulty = difficulty
		}
	}
}

// AutoStart skips the setup panel and generates on Init.
func AutoStart() Option {
	return func(s *QuizScreen) { s.autoStart = true }
}

// New creates a quiz screen for the env's current document.
func New(env *screen.Env, opts ...Option) *QuizScreen {
	s := &QuizScreen{
		env:        env,
		session:    qz.NewSession(),
		count:      qz.DefaultQuestions,
		difficulty: qz.DifficultyMedium,
		setup:      true,
		focus:      fieldGenerate,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Selected)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.autoStart {
		return s.generate()
	}
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

// Session exposes the underlying session.
func (s *QuizScreen) Session() *qz.Session {
	return s.session
}

// Close abandons in-flight generation or grading.
func (s *QuizScreen) Close() {
	s.abort()
}

func (s *QuizScreen) abort() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *QuizScreen) log() logrus.FieldLogger {
	return s.env.Logger().WithFields(logrus.Fields{
		"document_id": s.session.DocumentID(),
		"generation":  s.session.Generation(),
	})
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.setup {
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Change"},
			{Key: "Enter", Description: "Generate"},
			{Key: "Esc", Description: "Back"},
		}
	}
	switch s.session.State() {
	case qz.StateActive:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "←→", Description: "Prev/Next"},
			{Key: "s", Description: "Submit"},
			{Key: "r", Description: "Regenerate"},
			{Key: "Esc", Description: "Back"},
		}
	case qz.StateCompleted:
		return []layout.KeyHint{
			{Key: "←→", Description: "Review"},
			{Key: "n", Description: "New quiz"},
			{Key: "r", Description: "Regenerate"},
			{Key: "Esc", Description: "Back"},
		}
	case qz.StateError:
		return []layout.KeyHint{
			{Key: "r", Description: "Retry"},
			{Key: "Enter", Description: "Settings"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "r", Description: "Restart"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		return s.handleGenerated(msg)

	case progressMsg:
		return s.handleProgress(msg)

	case evaluatedMsg:
		return s.handleEvaluated(msg)

	case recordedMsg:
		if msg.session == s.session && msg.generation == s.session.Generation() {
			s.recordErr = msg.err
		}
		return s, nil

	case spinner.TickMsg:
		if st := s.session.State(); st == qz.StateGenerating || st == qz.StateEvaluating {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return s, cmd
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.setup {
		return s.handleSetupKey(key)
	}
	if key == "r" {
		return s, s.generate()
	}

	switch s.session.State() {
	case qz.StateActive:
		return s.handleAnswerKey(msg, key)

	case qz.StateCompleted:
		switch key {
		case "left", "h", "p":
			s.session.Navigate(-1)
		case "right", "l":
			s.session.Navigate(1)
		case "n", "enter":
			s.openSetup()
		}

	case qz.StateError:
		if key == "enter" {
			s.openSetup()
		}
	}
	return s, nil
}

func (s *QuizScreen) openSetup() {
	s.setup = true
	s.focus = fieldGenerate
	s.notice = ""
}

func (s *QuizScreen) handleSetupKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "up", "k", "shift+tab":
		s.focus = (s.focus + fieldTotal - 1) % fieldTotal
	case "down", "j", "tab":
		s.focus = (s.focus + 1) % fieldTotal
	case "+", "=":
		s.count = qz.ClampCount(s.count + 1)
	case "-", "_":
		s.count = qz.ClampCount(s.count - 1)
	case "d":
		s.difficulty = s.difficulty.Next()
	case "left", "h":
		s.adjust(-1)
	case "right", "l":
		s.adjust(1)
	case "enter", "r", "g":
		return s, s.generate()
	}
	return s, nil
}

func (s *QuizScreen) adjust(delta int) {
	switch s.focus {
	case fieldCount:
		s.count = qz.ClampCount(s.count + delta)
	case fieldDifficulty:
		if delta > 0 {
			s.difficulty = s.difficulty.Next()
		} else {
			s.difficulty = prevDifficulty(s.difficulty)
		}
	}
}

func prevDifficulty(d qz.Difficulty) qz.Difficulty {
	for i, v := range qz.Difficulties {
		if v == d {
			return qz.Difficulties[(i+len(qz.Difficulties)-1)%len(qz.Difficulties)]
		}
	}
	return qz.DifficultyMedium
}

func (s *QuizScreen) handleAnswerKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "1", "2", "3", "4":
		n, _ := strconv.Atoi(key)
		s.answer(n - 1)
	case "enter", "space":
		s.answer(s.choices.Cursor)
	case "left", "h", "p":
		s.move(-1)
	case "right", "l", "n", "tab":
		s.move(1)
	case "s":
		return s, s.submit()
	default:
		s.choices, _ = s.choices.Update(msg)
	}
	return s, nil
}

// answer records option idx of the current question and advances to the
// next question, if any.
func (s *QuizScreen) answer(idx int) {
	q, ok := s.session.Current()
	if !ok || idx < 0 || idx >= len(q.Options) {
		return
	}
	if err := s.session.RecordAnswer(s.session.Cursor(), q.Options[idx]); err != nil {
		s.notice = err.Error()
		return
	}
	s.notice = ""
	if s.session.Cursor() < s.session.Len()-1 {
		s.move(1)
		return
	}
	s.syncChoices()
}

func (s *QuizScreen) move(delta int) {
	s.session.Navigate(delta)
	s.notice = ""
	s.syncChoices()
}

// syncChoices rebuilds the option list for the question under the cursor.
func (s *QuizScreen) syncChoices() {
	q, ok := s.session.Current()
	if !ok {
		s.choices = components.Choices{}
		return
	}
	chosen := -1
	if a, ok := s.session.AnswerAt(s.session.Cursor()); ok {
		chosen = q.OptionIndex(a)
	}
	s.choices = components.NewChoices(q.Options, chosen)
}

// generate starts a new generation, abandoning any in-flight work.
func (s *QuizScreen) generate() tea.Cmd {
	t, err := s.session.Request(s.env.DocumentID(), s.count, s.difficulty)
	if err != nil {
		var ve *qz.ValidationError
		if errors.As(err, &ve) {
			s.notice = ve.Message
		} else {
			s.notice = err.Error()
		}
		return nil
	}
	s.abort()

	s.setup = false
	s.notice = ""
	s.recorded = false
	s.recordErr = nil
	s.attempted, s.total = 0, 0
	s.choices = components.Choices{}
	s.log().WithField("count", t.Request.Count).WithField("difficulty", t.Request.Difficulty).Info("generating quiz")

	ctx, cancel := context.WithTimeout(context.Background(), backend.DefaultTimeout)
	s.cancel = cancel
	sess, gen := s.session, s.env.Backend

	return tea.Batch(func() tea.Msg {
		defer cancel()
		set, err := gen.GenerateQuiz(ctx, t.Request)
		return generatedMsg{session: sess, ticket: t, set: set, err: err}
	}, s.spinner.Tick)
}

func (s *QuizScreen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	if msg.session != s.session {
		return s, nil
	}

	var err error
	if msg.err != nil {
		err = s.session.FailGeneration(msg.ticket, msg.err)
	} else {
		err = s.session.CompleteGeneration(msg.ticket, msg.set)
	}
	if errors.Is(err, qz.ErrStale) {
		s.log().WithField("ticket", msg.ticket.Generation).Debug("dropping stale quiz")
		return s, nil
	}

	s.cancel = nil
	if s.session.State() == qz.StateError {
		s.log().WithError(s.session.Err()).Warn("quiz generation failed")
		return s, nil
	}
	if n := s.session.Len(); n < msg.ticket.Request.Count {
		s.notice = "Generated " + strconv.Itoa(n) + " of " + strconv.Itoa(msg.ticket.Request.Count) + " questions."
	}
	s.syncChoices()
	return s, nil
}

// submit starts evaluation when every question is answered.
func (s *QuizScreen) submit() tea.Cmd {
	t, err := s.session.Submit()
	if err != nil {
		var ve *qz.ValidationError
		if errors.As(err, &ve) {
			s.notice = ve.Message
		} else {
			s.notice = err.Error()
		}
		return nil
	}
	s.notice = ""
	s.attempted, s.total = 0, t.Questions.Len()

	ctx, cancel := context.WithTimeout(context.Background(), backend.DefaultTimeout)
	s.cancel = cancel

	// Sized to the question count; progress sends never block.
	ch := make(chan qz.Progress, t.Questions.Len())
	ev := qz.NewEvaluator(s.env.Backend,
		qz.WithProgress(func(p qz.Progress) { ch <- p }),
		qz.WithLogger(s.log()),
	)
	sess := s.session

	run := func() tea.Msg {
		defer cancel()
		defer close(ch)
		return evaluatedMsg{session: sess, ticket: t, results: ev.Evaluate(ctx, t.Questions, t.Answers)}
	}
	return tea.Batch(run, waitProgress(sess, t.Generation, ch), s.spinner.Tick)
}

func waitProgress(sess *qz.Session, gen uint64, ch <-chan qz.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg{session: sess, generation: gen, progress: p, ch: ch}
	}
}

func (s *QuizScreen) handleProgress(msg progressMsg) (screen.Screen, tea.Cmd) {
	if msg.session != s.session || msg.generation != s.session.Generation() || s.session.State() != qz.StateEvaluating {
		return s, nil
	}
	s.attempted = max(s.attempted, msg.progress.Attempted)
	s.total = msg.progress.Total
	return s, waitProgress(msg.session, msg.generation, msg.ch)
}

func (s *QuizScreen) handleEvaluated(msg evaluatedMsg) (screen.Screen, tea.Cmd) {
	if msg.session != s.session {
		return s, nil
	}
	if err := s.session.CompleteEvaluation(msg.ticket, msg.results); err != nil {
		s.log().WithError(err).Debug("dropping stale evaluation")
		return s, nil
	}

	s.cancel = nil
	s.attempted = s.total
	s.session.Navigate(-s.session.Len())
	s.syncChoices()

	score, _ := s.session.Score()
	s.log().WithFields(logrus.Fields{
		"correct":  score.CorrectCount,
		"total":    score.TotalQuestions,
		"ungraded": len(s.session.Results().Ungraded(s.session.Len())),
	}).Info("quiz evaluated")

	return s, s.record()
}

// record appends the completed attempt to the event log.
func (s *QuizScreen) record() tea.Cmd {
	if s.env.Events == nil || s.recorded {
		return nil
	}
	s.recorded = true

	data := backend.AttemptData(s.session, s.env.DocumentName())
	repo, sess, gen := s.env.Events, s.session, s.session.Generation()
	log := s.log()
	return func() tea.Msg {
		err := repo.AppendQuizAttempt(context.Background(), data)
		if err != nil {
			log.WithError(err).Warn("failed to record quiz attempt")
		}
		return recordedMsg{session: sess, generation: gen, err: err}
	}
}

func (s *QuizScreen) View(width, height int) string {
	if s.setup {
		return s.renderSetup(width, height)
	}
	switch s.session.State() {
	case qz.StateGenerating:
		return s.renderGenerating(width, height)
	case qz.StateActive:
		return s.renderQuestion(width, height)
	case qz.StateEvaluating:
		return s.renderEvaluating(width, height)
	case qz.StateCompleted:
		return s.renderResults(width, height)
	case qz.StateError:
		return s.renderError(width, height)
	default:
		return s.renderSetup(width, height)
	}
}
