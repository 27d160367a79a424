package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "duplicate registration",
			err:         errors.New(MsgAlreadyRegistered),
			wantCode:    "REG001",
			wantMessage: "This participant is already registered",
		},
		{
			name:        "missing fields",
			err:         errors.New(MsgRequiredFields),
			wantCode:    "REG002",
			wantMessage: "Name, District and Province are required",
		},
		{
			name:        "invalid day",
			err:         fmt.Errorf("checkin 3: %w", ErrInvalidDay),
			wantCode:    "CHK001",
			wantMessage: "Check-in day must be 1 or 2",
		},
		{
			name:        "file too large",
			err:         fmt.Errorf("import big.csv: %w", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum import size",
		},
		{
			name:        "unreadable file",
			err:         fmt.Errorf("import x: %w: parse csv", ErrUnreadableFile),
			wantCode:    "FILE002",
			wantMessage: "File is not a readable spreadsheet",
		},
		{
			name:        "too many imports",
			err:         ErrTooManyImports,
			wantCode:    "IMP001",
			wantMessage: "System is busy processing other imports",
		},
		{
			name:        "lock timeout",
			err:         errors.New("register \"Ann\": timed out acquiring store lock"),
			wantCode:    "STO001",
			wantMessage: "The registry is busy",
		},
		{
			name:        "save failure",
			err:         errors.New("save registry: rename: permission denied"),
			wantCode:    "STO002",
			wantMessage: "The registry could not be written",
		},
		{
			name:        "rate limit",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("ALREADY REGISTERED"),
			wantCode:    "REG001",
			wantMessage: "This participant is already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrTooManyImports)

	expected := "System is busy processing other imports (Code: IMP001). Please wait a moment and try again"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error is not user facing", err: nil, want: false},
		{name: "known error is user facing", err: ErrEmptyFile, want: true},
		{name: "unknown error is not user facing", err: errors.New("random internal error xyz"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		userErr := NewUserError(ErrNoFile)

		if userErr.Error() != "No file was selected" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrNoFile) {
			t.Error("Unwrap() should return original error")
		}
	})
}
