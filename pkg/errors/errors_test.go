package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "Without cause",
			err:  New(ErrCodeNotFound, "team not found"),
			want: "NOT_FOUND: team not found",
		},
		{
			name: "With cause",
			err:  Wrap(stderrors.New("connection reset"), ErrCodeInternalError, "failed to get team"),
			want: "INTERNAL_ERROR: failed to get team (connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", New(ErrCodeTeamLocked, "Team is locked"))

	if got := CodeOf(wrapped); got != ErrCodeTeamLocked {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeTeamLocked)
	}
	if got := CodeOf(stderrors.New("boom")); got != ErrCodeInternalError {
		t.Errorf("CodeOf(plain) = %q, want %q", got, ErrCodeInternalError)
	}
	if Is(nil, ErrCodeNotFound) {
		t.Error("Is(nil) = true, want false")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeConflict, http.StatusBadRequest},
		{ErrCodeAlreadyExists, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTeamLocked, http.StatusForbidden},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeInternalError, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := HTTPStatus(tt.code); got != tt.want {
				t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := Wrap(stderrors.New("pq: password authentication failed"), ErrCodeInternalError, "failed to get team")
	if got := PublicMessage(err); got != "Internal Server Error" {
		t.Errorf("PublicMessage() = %q, want generic message", got)
	}

	if got := PublicMessage(New(ErrCodeNotFound, "Team not found")); got != "Team not found" {
		t.Errorf("PublicMessage() = %q, want %q", got, "Team not found")
	}
}
