package vectordb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is returned when the index handle was never established
	// (missing credentials, unknown index, or startup connection failure).
	ErrNotConnected = errors.New("vectordb: index not connected")

	// ErrInvalidFilter is returned when a metadata filter is malformed or
	// uses an operator the backend cannot express.
	ErrInvalidFilter = errors.New("vectordb: invalid filter")
)

// UpstreamError describes a failed call to the index service. StatusCode and
// Body are populated when the upstream returned a response.
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := "vectordb: " + e.Op + " failed"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotConnected reports whether err means the index was never connected.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsInvalidFilter reports whether err is a filter validation error.
func IsInvalidFilter(err error) bool {
	return errors.Is(err, ErrInvalidFilter)
}

// AsUpstreamError extracts an *UpstreamError from err's chain.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
