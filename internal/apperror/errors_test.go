package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestReportedKindsUseStatusOK(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		kind string
	}{
		{"missing fields", NewMissingFields("m"), TypeMissingFields},
		{"invalid email", NewInvalidEmail("m"), TypeInvalidEmail},
		{"email taken", NewEmailTaken("m"), TypeEmailTaken},
		{"weak password", NewWeakPassword("m"), TypeWeakPassword},
		{"field too long", NewFieldTooLong("m"), TypeFieldTooLong},
		{"not found", NewNotFound("m"), TypeNotFound},
		{"bad credentials", NewBadCredentials("m"), TypeBadCredentials},
		{"bad old password", NewBadOldPassword("m"), TypeBadOldPassword},
		{"password mismatch", NewPasswordMismatch("m"), TypePasswordMismatch},
		{"invalid code", NewInvalidOrExpiredCode("m"), TypeInvalidOrExpired},
		{"mail delivery", NewMailDeliveryFailed("m", errors.New("smtp down")), TypeMailDeliveryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", tt.err.Code)
			}
			if tt.err.Type != tt.kind {
				t.Errorf("expected type %s, got %s", tt.kind, tt.err.Type)
			}
		})
	}
}

func TestAdmissionKinds(t *testing.T) {
	if got := NewAuthRequired("login").Code; got != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", got)
	}
	if got := NewForbidden("no").Code; got != http.StatusForbidden {
		t.Errorf("expected 403, got %d", got)
	}
	if got := NewTooManyRequests("slow").Code; got != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", got)
	}
}

func TestStoreUnavailable_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:3306: connection refused")
	err := NewStoreUnavailable(cause)

	if err.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.Code)
	}
	if SafeMessage(err) == cause.Error() {
		t.Error("expected generic message, got driver error")
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("signup: %w", NewEmailTaken("taken"))

	if !Is(err, TypeEmailTaken) {
		t.Error("expected wrapped error to match kind")
	}
	if Is(err, TypeWeakPassword) {
		t.Error("expected different kind not to match")
	}
	if Is(errors.New("plain"), TypeEmailTaken) {
		t.Error("expected plain error not to match")
	}
}

func TestSafeCode_NonAppError(t *testing.T) {
	if got := SafeCode(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", got)
	}
	if got := SafeMessage(errors.New("boom")); got != "an unexpected error occurred" {
		t.Errorf("unexpected message %q", got)
	}
}
