package refdesk

import "fmt"

// APIError is a non-2xx response from the refdesk API.
// Use errors.As() to inspect the code and status.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("refdesk: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}
