package fleetapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrSessionExpired is returned once a token refresh failed and the session was logged out.
	ErrSessionExpired = errors.New("session expired")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrUnavailable    = errors.New("backend unavailable")
)

// DefaultErrorMessage is shown when nothing better can be extracted.
const DefaultErrorMessage = "An error occurred."

// APIError is a failed fleet API call, classified for display.
type APIError struct {
	Status           int
	Method           string
	Path             string
	UserMessage      string
	BackendMessage   string
	ValidationErrors map[string]string
	Err              error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.UserMessage, e.Err)
	}
	msg := e.BackendMessage
	if msg == "" {
		msg = e.UserMessage
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, msg)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == 0:
		return errors.Join(ErrUnavailable, e.Err)
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return ErrForbidden
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status == http.StatusConflict:
		return ErrConflict
	}
	return nil
}

// Message returns the user message, falling back to the backend message.
func (e *APIError) Message() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	if e.BackendMessage != "" {
		return e.BackendMessage
	}
	return DefaultErrorMessage
}

// Classify maps a response status to the text shown to the user.
// Status 0 stands for a request that never got a response.
func Classify(status int, backendMsg string) string {
	switch {
	case status == 0:
		return "Backend is unavailable."
	case status == http.StatusBadRequest:
		if backendMsg != "" {
			return backendMsg
		}
		return "Validation error"
	case status == http.StatusUnauthorized:
		return "Unauthorized — please sign in."
	case status == http.StatusForbidden:
		return "Forbidden — insufficient permissions."
	case status == http.StatusNotFound:
		return "Not found."
	case status == http.StatusConflict:
		if backendMsg != "" {
			return backendMsg
		}
		return "Conflict."
	case status >= 500:
		return "Server error."
	}
	return "Unknown error."
}

// ExtractBackendMessage reads the message out of an error body: a plain text
// body first, then the JSON "message" field, then "error".
func ExtractBackendMessage(body []byte) string {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return ""
	}
	if !gjson.Valid(raw) {
		return raw
	}

	parsed := gjson.Parse(raw)
	if parsed.Type == gjson.String {
		return strings.TrimSpace(parsed.String())
	}

	for _, field := range []string{"message", "error"} {
		v := parsed.Get(field)
		if v.Type == gjson.String {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func extractValidationErrors(body []byte) map[string]string {
	v := gjson.GetBytes(body, "validationErrors")
	if !v.IsObject() {
		return nil
	}
	out := make(map[string]string)
	v.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}

func newAPIError(method, path string, status int, body []byte, cause error) *APIError {
	backendMsg := ExtractBackendMessage(body)
	return &APIError{
		Status:           status,
		Method:           method,
		Path:             path,
		UserMessage:      Classify(status, backendMsg),
		BackendMessage:   backendMsg,
		ValidationErrors: extractValidationErrors(body),
		Err:              cause,
	}
}

// UserMessage returns what a notification should say for err, and false when
// err must not be shown: 401/403 and expired sessions are handled by redirects.
func UserMessage(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	if errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
		return "", false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message(), true
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg, true
	}
	return DefaultErrorMessage, true
}
