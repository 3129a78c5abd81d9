package adapters

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network call when the
// adapter has no credential configured.
var ErrMissingAPIKey = errors.New("missing api key")

// StatusError is a non-2xx upstream response. Body carries the
// upstream error payload for diagnostics.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, string(e.Body))
}
