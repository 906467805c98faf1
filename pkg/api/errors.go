package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is a non-2xx backend answer.
type Error struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s %s: %s", e.Method, e.Path, e.Message)
}

// messageFrom extracts the JSON "message" field, falling back to the generic
// "HTTP <status>" text when the body has none.
func messageFrom(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fmt.Sprintf("HTTP %d", status)
}

// IsStatus reports whether err is a backend answer with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Message returns the text to show a user for err: the backend's message for
// HTTP errors, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
