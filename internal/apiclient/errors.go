package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error is the uniform failure every client method returns. Status 0 means the
// request never produced an HTTP response.
type Error struct {
	Status      int
	Message     string
	FieldErrors map[string]string
	UserMessage string
	Err         error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("banking api: status %d: %s", e.Status, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or -1 when err is not an
// *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return -1
}

// UserMessage extracts the display string for any error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.UserMessage != "" {
		return apiErr.UserMessage
	}
	return "An unexpected error occurred. Please try again."
}

// errorBody covers the error payloads the banking API produces.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

// newError builds an Error from a non-2xx response body.
func newError(status int, body []byte) *Error {
	apiErr := &Error{Status: status}
	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		apiErr.Message = eb.Message
		if apiErr.Message == "" {
			apiErr.Message = eb.Error
		}
		if len(eb.Errors) > 0 {
			apiErr.FieldErrors = eb.Errors
		}
		for _, d := range eb.Details {
			if apiErr.FieldErrors == nil {
				apiErr.FieldErrors = map[string]string{}
			}
			apiErr.FieldErrors[d.Field] = d.Message
		}
	} else if len(body) > 0 {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	Normalize(apiErr)
	return apiErr
}

// networkError wraps a transport failure as a status-0 Error.
func networkError(err error) *Error {
	apiErr := &Error{Status: 0, Err: err}
	Normalize(apiErr)
	return apiErr
}

// Normalize fills UserMessage from the status code and server payload.
func Normalize(e *Error) {
	switch e.Status {
	case 0:
		e.UserMessage = "Unable to reach the banking server. Check your connection and try again."
	case http.StatusBadRequest:
		if len(e.FieldErrors) > 0 {
			e.UserMessage = "Validation error: " + joinFieldErrors(e.FieldErrors, ", ")
		} else if e.Message != "" {
			e.UserMessage = e.Message
		} else {
			e.UserMessage = "The request was invalid. Please check the form and try again."
		}
	case http.StatusUnauthorized:
		e.UserMessage = "Your session has expired. Please log in again."
	case http.StatusForbidden:
		e.UserMessage = "You do not have permission to perform this action."
	case http.StatusNotFound:
		e.UserMessage = "The requested resource was not found."
	case http.StatusConflict:
		if e.Message != "" {
			e.UserMessage = e.Message
		} else {
			e.UserMessage = "The request conflicts with the current state of the resource."
		}
	case http.StatusUnprocessableEntity:
		if len(e.FieldErrors) > 0 {
			e.UserMessage = joinFieldErrors(e.FieldErrors, "; ")
		} else if e.Message != "" {
			e.UserMessage = e.Message
		} else {
			e.UserMessage = "Validation failed."
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		e.UserMessage = "The server encountered an error. Please try again later."
	default:
		if e.Message != "" {
			e.UserMessage = e.Message
		} else {
			e.UserMessage = fmt.Sprintf("Request failed with status %d.", e.Status)
		}
	}
}

func joinFieldErrors(fields map[string]string, sep string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, sep)
}
