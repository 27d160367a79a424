package core

// error_messages.go maps technical errors to user-friendly messages with codes.
//
// # Error Codes Reference
//
// When desk staff encounter an error, they can quote the code to whoever runs
// the registry for faster diagnosis. Codes are grouped by category:
//
// # Registration Errors (REG001-REG099)
//
//	REG001 - Duplicate participant: This participant is already registered
//	         Action: Search the list and check them in instead
//	         Patterns: "already registered"
//
//	REG002 - Required field: Name, District and Province are required
//	         Action: Fill in every required field
//	         Patterns: "are required", "required field"
//
// # Check-in Errors (CHK001-CHK099)
//
//	CHK001 - Invalid day: Check-in day must be 1 or 2
//	         Action: Choose Day 1 or Day 2
//	         Patterns: "invalid check-in day"
//
//	CHK002 - Invalid selection: No participants were selected
//	         Action: Select at least one participant
//	         Patterns: "no participants selected"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum import size
//	          Action: Split the file into smaller chunks
//	          Patterns: "file too large"
//
//	FILE002 - Unreadable file: File is not a readable spreadsheet
//	          Action: Upload an .xlsx workbook or a comma-separated .csv file
//	          Patterns: "unreadable file"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a file to import
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Please upload a file with a header row and data rows
//	          Patterns: "empty file"
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - System busy: Too many imports in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many imports"
//
// # Store Errors (STO001-STO099)
//
//	STO001 - Store busy: Timed out waiting for the registry lock
//	         Action: Another desk is saving; please try again
//	         Patterns: "store lock"
//
//	STO002 - Save failed: The registry could not be written
//	         Action: Nothing was changed; please try again
//	         Patterns: "save registry"
//
//	STO003 - Load failed: The registry could not be read
//	         Action: Check that the registry file is not open elsewhere
//	         Patterns: "load registry"
//
//	STO004 - Unsupported store: Registry file type is not supported
//	         Action: Use a .xlsx, .csv or .db registry path
//	         Patterns: "unsupported store format"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Request was cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout: Request timed out
//	         Patterns: "context deadline exceeded"
//
//	REQ003 - Bad request: The request body could not be decoded
//	         Patterns: "invalid request"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Order matters: the first match wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Registration and check-in (REG, CHK)
	// =========================================================================
	{
		pattern: "already registered",
		msg: UserMessage{
			Message: "This participant is already registered",
			Action:  "Search the list and check them in instead",
			Code:    "REG001",
		},
	},
	{
		pattern: "are required",
		msg: UserMessage{
			Message: "Name, District and Province are required",
			Action:  "Fill in every required field",
			Code:    "REG002",
		},
	},
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "Name, District and Province are required",
			Action:  "Fill in every required field",
			Code:    "REG002",
		},
	},
	{
		pattern: "invalid check-in day",
		msg: UserMessage{
			Message: "Check-in day must be 1 or 2",
			Action:  "Choose Day 1 or Day 2",
			Code:    "CHK001",
		},
	},
	{
		pattern: "no participants selected",
		msg: UserMessage{
			Message: "No participants were selected",
			Action:  "Select at least one participant",
			Code:    "CHK002",
		},
	},

	// =========================================================================
	// File Errors (FILE)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum import size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unreadable file",
		msg: UserMessage{
			Message: "File is not a readable spreadsheet",
			Action:  "Upload an .xlsx workbook or a comma-separated .csv file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row and data rows",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Import and Store Errors (IMP, STO)
	// =========================================================================
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "store lock",
		msg: UserMessage{
			Message: "The registry is busy",
			Action:  "Another desk is saving; please try again",
			Code:    "STO001",
		},
	},
	{
		pattern: "save registry",
		msg: UserMessage{
			Message: "The registry could not be written",
			Action:  "Nothing was changed; please try again",
			Code:    "STO002",
		},
	},
	{
		pattern: "load registry",
		msg: UserMessage{
			Message: "The registry could not be read",
			Action:  "Check that the registry file is not open elsewhere",
			Code:    "STO003",
		},
	},
	{
		pattern: "unsupported store format",
		msg: UserMessage{
			Message: "Registry file type is not supported",
			Action:  "Use a .xlsx, .csv or .db registry path",
			Code:    "STO004",
		},
	},

	// =========================================================================
	// Request Errors (REQ, RATE)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Check the submitted fields and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	err := fmt.Errorf("import: %w", ErrTooManyImports)
//	msg := MapError(err)
//	// msg.Code == "IMP001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
