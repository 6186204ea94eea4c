package tailor

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the tailoring backend. Code is the
// server-reported error code when the body carries one; the backend surfaces
// Mongo duplicate-key violations as code 11000.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("tailor api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("tailor api: status %d", e.StatusCode)
}

// IsDuplicateKey reports a duplicate unique field, in practice a username
// that is already taken.
func (e *APIError) IsDuplicateKey() bool {
	return e.Code == 11000
}

// IsUnauthorized reports an auth failure; callers treat it as an implicit
// logout.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// newAPIError builds an APIError from a response body, tolerating bodies
// that are not the backend's usual {message, code} shape.
func newAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Message: string(body)}
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Code    int    `json:"code"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		apiErr.Code = parsed.Code
		if parsed.Message != "" {
			apiErr.Message = parsed.Message
		} else if parsed.Error != "" {
			apiErr.Message = parsed.Error
		}
	}
	return apiErr
}
