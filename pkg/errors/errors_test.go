package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestConstructorsMapToStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NotFound("Car"), CodeNotFound, http.StatusNotFound},
		{NotFoundWithID("Car", "7"), CodeNotFound, http.StatusNotFound},
		{Validation("bad payload", nil), CodeValidation, http.StatusBadRequest},
		{InvalidInput("bad id"), CodeInvalidInput, http.StatusBadRequest},
		{Unauthorized("login required"), CodeUnauthorized, http.StatusUnauthorized},
		{Conflict("already booked"), CodeConflict, http.StatusConflict},
		{Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{Timeout("too slow"), CodeTimeout, http.StatusGatewayTimeout},
		{Unavailable("down"), CodeUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		if tc.err.Code != tc.code {
			t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
		}
		if tc.err.StatusCode() != tc.status {
			t.Errorf("%s: expected status %d, got %d", tc.code, tc.status, tc.err.StatusCode())
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("socket closed")
	err := Internal("Failed to create booking", cause)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if !IsAppError(fmt.Errorf("context: %w", err)) {
		t.Error("expected IsAppError to see through wrapping")
	}
}

func TestAsAppError_UnknownBecomesInternal(t *testing.T) {
	appErr := AsAppError(fmt.Errorf("driver exploded"))

	if appErr.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, appErr.Code)
	}
	if appErr.StatusCode() != http.StatusInternalServerError {
		t.Errorf("unexpected status %d", appErr.StatusCode())
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := WriteError(rec, fmt.Errorf("mongo: connection refused to 10.0.0.5")); err != nil {
		t.Fatalf("WriteError() failed: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, body.Code)
	}
	if body.Message == "" || body.Message != "An unexpected error occurred" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestWriteError_SerializesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	err := Validation("Booking validation failed", map[string]any{"error": "BookedBy is required"})
	if writeErr := WriteError(rec, err); writeErr != nil {
		t.Fatalf("WriteError() failed: %v", writeErr)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}

	var body ErrorResponse
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &body); jsonErr != nil {
		t.Fatalf("invalid JSON body: %v", jsonErr)
	}
	if body.Details["error"] != "BookedBy is required" {
		t.Errorf("unexpected details: %v", body.Details)
	}
}
