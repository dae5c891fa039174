package identity

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the provider. Message carries the
// provider's own wording so it can be shown to the user.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// UserMessage is the provider's wording, fit for display.
func (e *APIError) UserMessage() string {
	return e.Message
}

// Unauthorized reports whether the provider rejected the session itself.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Permanent reports whether repeating the request cannot succeed.
func (e *APIError) Permanent() bool {
	return e.Status >= 400 && e.Status < 500 && e.Status != http.StatusTooManyRequests
}

// errorBody covers the error shapes GoTrue versions have used.
type errorBody struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
	ErrorCode        string `json:"error_code"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var b errorBody
	if err := json.Unmarshal(body, &b); err == nil {
		e.Code = b.ErrorCode
		for _, m := range []string{b.Msg, b.Message, b.ErrorDescription, b.Error} {
			if m != "" {
				e.Message = m
				break
			}
		}
	}

	if e.Message == "" {
		e.Message = fmt.Sprintf("identity provider returned %d %s", status, http.StatusText(status))
	}
	return e
}
