package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/abhisek/studykit/internal/grading"
	"github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/studyaids"
)

// multipartOverhead is the allowance for multipart framing on uploads.
const multipartOverhead = 1 << 20

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// POST /api/upload
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+multipartOverhead)

	f, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, err)
			return
		}
		writeError(w, r, &badRequest{msg: "multipart field \"file\" is required"})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		writeError(w, r, err)
		return
	}

	doc, err := s.backend.Upload(r.Context(), hdr.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		FileID:      doc.ID,
		Filename:    doc.Filename,
		ContentType: doc.MIMEType,
		Size:        doc.Size,
	})
}

func requireFileID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &quiz.ValidationError{Field: "file_id", Message: "is required"}
	}
	return nil
}

// POST /api/notes
func (s *Server) notes(w http.ResponseWriter, r *http.Request) {
	var req NotesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireFileID(req.FileID); err != nil {
		writeError(w, r, err)
		return
	}
	style, err := studyaids.ParseStyle(req.Style)
	if err != nil {
		writeError(w, r, &badRequest{msg: err.Error()})
		return
	}

	notes, err := s.backend.Notes(r.Context(), req.FileID, style)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NotesResponse{Notes: notes})
}

// POST /api/flashcards
func (s *Server) flashcards(w http.ResponseWriter, r *http.Request) {
	var req FlashcardsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireFileID(req.FileID); err != nil {
		writeError(w, r, err)
		return
	}

	cards, err := s.backend.Flashcards(r.Context(), req.FileID, req.Count)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := FlashcardsResponse{Flashcards: make([]Flashcard, len(cards))}
	for i, c := range cards {
		resp.Flashcards[i] = Flashcard{Front: c.Front, Back: c.Back}
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/quiz
func (s *Server) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req QuizRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := requireFileID(req.FileID); err != nil {
		writeError(w, r, err)
		return
	}
	difficulty, err := quiz.ParseDifficulty(req.Difficulty)
	if err != nil {
		writeError(w, r, err)
		return
	}
	count := quiz.DefaultQuestions
	if req.Count != 0 {
		count = quiz.ClampCount(req.Count)
	}

	set, err := s.backend.GenerateQuiz(r.Context(), quiz.GenerateRequest{
		DocumentID: req.FileID,
		Count:      count,
		Difficulty: difficulty,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, QuizResponseFromSet(set))
}

// POST /api/quiz/evaluate
func (s *Server) evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.CorrectAnswer) == "" {
		writeError(w, r, &quiz.ValidationError{Field: "correct_answer", Message: "is required"})
		return
	}

	res, err := s.backend.Grade(r.Context(), quiz.GradeRequest{
		Question:      req.Question,
		UserAnswer:    req.UserAnswer,
		CorrectAnswer: req.CorrectAnswer,
	})
	if err != nil {
		writeError(w, r, &upstreamError{op: "grading", err: err})
		return
	}

	writeJSON(w, http.StatusOK, EvaluateResponse{
		IsCorrect: res.IsCorrect,
		Score:     grading.Score(res),
		Feedback:  res.Feedback,
	})
}

// QuizResponseFromSet converts a question set to its wire form.
func QuizResponseFromSet(set *quiz.QuestionSet) QuizResponse {
	resp := QuizResponse{Questions: make([]QuizQuestion, 0, set.Len())}
	for _, q := range set.All() {
		resp.Questions = append(resp.Questions, QuizQuestion{
			Question:      q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectIndex,
			Explanation:   q.Explanation,
		})
	}
	return resp
}

// QuestionSetFromResponse converts the wire form back to a validated set.
func QuestionSetFromResponse(resp QuizResponse) (*quiz.QuestionSet, error) {
	qs := make([]quiz.Question, len(resp.Questions))
	for i, q := range resp.Questions {
		qs[i] = quiz.Question{
			Text:         q.Question,
			Options:      q.Options,
			CorrectIndex: q.CorrectAnswer,
			Explanation:  q.Explanation,
		}
	}
	return quiz.NewQuestionSet(qs)
}
