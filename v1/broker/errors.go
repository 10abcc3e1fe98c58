package broker

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput marks request problems the client can fix.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable marks an upstream that was never configured or
	// connected.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrUpstreamError marks a failed call to a configured upstream.
	ErrUpstreamError = errors.New("upstream error")
)

const (
	StageEmbedding = "embedding"
	StageSearch    = "search"
)

// InvalidInputError carries the offending request body for diagnostics.
type InvalidInputError struct {
	Reason string
	// Body is the parsed request body, or the raw text if it was not JSON.
	Body any
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(body any, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...), Body: body}
}

// StageError is an upstream failure tagged with the pipeline stage that
// produced it. Kind is ErrUpstreamUnavailable or ErrUpstreamError.
type StageError struct {
	Stage string
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsInvalidInput reports whether err is a client input problem.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// AsInvalidInput extracts an *InvalidInputError from err's chain.
func AsInvalidInput(err error) (*InvalidInputError, bool) {
	var ie *InvalidInputError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// StageOf returns the pipeline stage tagged on err, or "".
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}

// Classification kinds, used as the metrics status label.
const (
	KindInvalidInput        = "invalid_input"
	KindUpstreamUnavailable = "upstream_unavailable"
	KindUpstreamError       = "upstream_error"
	KindInternal            = "internal"
)

// Classify maps err to an HTTP status and a kind.
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, KindInvalidInput
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, KindUpstreamUnavailable
	case errors.Is(err, ErrUpstreamError):
		return http.StatusInternalServerError, KindUpstreamError
	default:
		return http.StatusInternalServerError, KindInternal
	}
}
