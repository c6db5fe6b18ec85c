package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abhisek/studykit/internal/docstore"
	"github.com/abhisek/studykit/internal/llm"
	"github.com/abhisek/studykit/internal/logging"
	"github.com/abhisek/studykit/internal/quiz"
	"github.com/abhisek/studykit/internal/studyaids"
)

// badRequest marks a malformed request body or parameter.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

// upstreamError marks a failure of a collaborator behind the API.
type upstreamError struct {
	op  string
	err error
}

func (e *upstreamError) Error() string { return e.op + " failed: " + e.err.Error() }

func (e *upstreamError) Unwrap() error { return e.err }

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var (
		validation  *quiz.ValidationError
		bad         *badRequest
		upstream    *upstreamError
		tooLarge    *http.MaxBytesError
		generation  *quiz.GenerationError
		grading     *quiz.GradingError
		rateLimit   *llm.ErrRateLimit
		invalid     *llm.ErrInvalidResponse
		unavailable *llm.ErrProviderUnavailable
		truncated   *llm.ErrMaxTokensExceeded
		attachment  *llm.ErrUnsupportedAttachment
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &bad), errors.Is(err, docstore.ErrEmpty):
		return http.StatusBadRequest
	case errors.Is(err, docstore.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, docstore.ErrTooLarge), errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, docstore.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &upstream), errors.As(err, &generation), errors.As(err, &grading),
		errors.As(err, &rateLimit), errors.As(err, &invalid), errors.As(err, &unavailable),
		errors.As(err, &truncated), errors.As(err, &attachment),
		errors.Is(err, studyaids.ErrShortOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it as {"detail": ...}. Internal errors
// are not echoed to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := logging.FromContext(r.Context()).WithError(err).WithField("status", status)

	detail := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed")
		detail = http.StatusText(status)
	} else {
		log.Warn("request rejected")
	}
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return &badRequest{msg: "invalid request body: " + err.Error()}
	}
	return nil
}
