package fleetapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		backend string
		want    string
	}{
		{"unreachable", 0, "", "Backend is unavailable."},
		{"bad request with message", 400, "Plate already used", "Plate already used"},
		{"bad request without message", 400, "", "Validation error"},
		{"unauthorized", 401, "whatever", "Unauthorized — please sign in."},
		{"forbidden", 403, "", "Forbidden — insufficient permissions."},
		{"not found", 404, "missing", "Not found."},
		{"conflict with message", 409, "Vehicle is in use", "Vehicle is in use"},
		{"conflict without message", 409, "", "Conflict."},
		{"server error", 500, "boom", "Server error."},
		{"bad gateway", 502, "", "Server error."},
		{"teapot", 418, "", "Unknown error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.status, tt.backend))
		})
	}
}

func TestExtractBackendMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "  Driver is busy \n", "Driver is busy"},
		{"json string", `"quoted"`, "quoted"},
		{"message field", `{"message":"Bad dates","error":"Bad Request"}`, "Bad dates"},
		{"error field", `{"error":"Conflict"}`, "Conflict"},
		{"blank message falls back to error", `{"message":"  ","error":"Nope"}`, "Nope"},
		{"no known fields", `{"status":500}`, ""},
		{"non-string message", `{"message":42}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractBackendMessage([]byte(tt.body)))
		})
	}
}

func TestNewAPIError_ValidationErrors(t *testing.T) {
	body := []byte(`{"message":"Validation failed","validationErrors":{"licensePlate":"must not be blank","mileage":"must be positive"}}`)

	err := newAPIError("POST", "/api/vehicles", 400, body, nil)

	assert.Equal(t, "Validation failed", err.UserMessage)
	assert.Equal(t, map[string]string{
		"licensePlate": "must not be blank",
		"mileage":      "must be positive",
	}, err.ValidationErrors)
}

func TestAPIError_Unwrap(t *testing.T) {
	assert.ErrorIs(t, newAPIError("GET", "/x", 401, nil, nil), ErrUnauthorized)
	assert.ErrorIs(t, newAPIError("GET", "/x", 403, nil, nil), ErrForbidden)
	assert.ErrorIs(t, newAPIError("GET", "/x", 404, nil, nil), ErrNotFound)
	assert.ErrorIs(t, newAPIError("GET", "/x", 409, nil, nil), ErrConflict)

	cause := errors.New("dial tcp: connection refused")
	unavailable := newAPIError("GET", "/x", 0, nil, cause)
	assert.ErrorIs(t, unavailable, ErrUnavailable)
	assert.ErrorIs(t, unavailable, cause)

	assert.Nil(t, newAPIError("GET", "/x", 500, nil, nil).Unwrap())
}

func TestUserMessage(t *testing.T) {
	t.Run("suppressed", func(t *testing.T) {
		for _, err := range []error{
			nil,
			ErrSessionExpired,
			fmt.Errorf("load: %w", ErrSessionExpired),
			newAPIError("GET", "/x", 401, nil, nil),
			newAPIError("GET", "/x", 403, nil, nil),
		} {
			_, show := UserMessage(err)
			assert.False(t, show, "%v", err)
		}
	})

	t.Run("api error", func(t *testing.T) {
		msg, show := UserMessage(newAPIError("DELETE", "/x", 409, []byte(`{"message":"Location is in use"}`), nil))
		assert.True(t, show)
		assert.Equal(t, "Location is in use", msg)
	})

	t.Run("fallback chain", func(t *testing.T) {
		msg, _ := UserMessage(&APIError{Status: 400, BackendMessage: "from backend"})
		assert.Equal(t, "from backend", msg)

		msg, _ = UserMessage(&APIError{Status: 400})
		assert.Equal(t, DefaultErrorMessage, msg)
	})

	t.Run("plain error", func(t *testing.T) {
		msg, show := UserMessage(errors.New("something broke"))
		assert.True(t, show)
		assert.Equal(t, "something broke", msg)
	})
}
