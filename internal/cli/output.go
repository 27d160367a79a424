package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/JonMunkholm/register/internal/core"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (store busy, unreadable import, ...)
	ExitCommandError = 2 // Command error (bad flags, bad config, unknown format)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Errors that are not ExitErrors come from cobra itself (unknown command,
// bad flag) and map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Diagnostics go here so JSON output stays parseable
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // MapError code, e.g. "STO001"
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // technical error, verbose only in text
}

// Success writes data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// UserError reports a failed operation. Text mode prints the mapped message,
// code and suggested action; JSON mode carries the technical error as details.
func (f *OutputFormatter) UserError(op string, uerr *core.UserError) error {
	if uerr == nil {
		return nil
	}
	if f.Format == "json" {
		return f.Error(uerr.User.Code, op+": "+uerr.User.Message, uerr.Technical.Error())
	}

	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, "Error: %s: %s\n", op, core.FormatUserError(uerr.Technical))
	if f.Verbose || !core.IsUserFacing(uerr.Technical) {
		fmt.Fprintf(w, "Details: %v\n", uerr.Technical)
	}
	return nil
}

// writeTable renders participants as aligned columns.
func writeTable(w io.Writer, t core.Table) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NO.\tNAME\tASSOCIATION\tDISTRICT\tPROVINCE\tDAY1\tDAY2")
	for _, p := range t {
		no := "-"
		if p.No > 0 {
			no = strconv.Itoa(p.No)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			no, p.Name, p.Association, p.District, p.Province, mark(p.Day1Attended), mark(p.Day2Attended))
	}
	tw.Flush()
	fmt.Fprintf(w, "%d participant(s)\n", len(t))
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
