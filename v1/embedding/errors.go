package embedding

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential is returned by Embed when no provider key is configured.
	ErrNoCredential = errors.New("embedding: no provider credential configured")

	// ErrEmptyResponse means the provider answered without an embedding.
	ErrEmptyResponse = errors.New("embedding: response missing embedding")
)

// ProviderError is a failed call to the embedding provider: transport error,
// timeout, non-2xx status or an unusable response body.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := "embedding: " + e.Provider + " request failed"
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

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsNoCredential reports whether err means the provider key is missing.
func IsNoCredential(err error) bool {
	return errors.Is(err, ErrNoCredential)
}

// AsProviderError extracts a *ProviderError from err's chain.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
