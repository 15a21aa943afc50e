package davinci

import (
	"errors"
	"fmt"
)

// ErrEmptyChoices is returned when the provider responds with a well-formed
// body that contains no completion choices.
var ErrEmptyChoices = errors.New("completion response contained no choices")

// APIError is returned when the provider answers with a non-2xx status.
// Body holds the raw response body; Detail is filled in when the body parses
// as the provider's standard error envelope.
type APIError struct {
	StatusCode int
	Body       string
	Detail     *ErrorDetail
}

func (e *APIError) Error() string {
	if e.Detail != nil && e.Detail.Message != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Detail.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}
