package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the operation was refused (validation, credits, credentials)
	ExitCommandError = 2 // the command could not run (config, storage, bad flags)
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps err onto a process exit code. Refusals the user can fix
// exit 1; everything else exits 2.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if typed := pkgerrors.As(err); typed != nil {
		if pkgerrors.MetadataFor(typed.Code()).Category == pkgerrors.CategoryValidation {
			return ExitFailure
		}
		return ExitCommandError
	}
	return ExitCommandError
}

// OutputFormatter renders command results as text or JSON.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success writes data as JSON, or calls text for the text format.
func (f *OutputFormatter) Success(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return f.writeJSON(CLIResponse{Status: "ok", Data: data})
	}
	text(f.Writer)
	return nil
}

// Error writes err in the configured format using its user-facing message.
func (f *OutputFormatter) Error(err error) error {
	code := string(pkgerrors.CodeOf(err))
	message := pkgerrors.UserMessage(err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) && pkgerrors.As(err) == nil {
		code = "COMMAND_ERROR"
		message = exitErr.Error()
	}
	if f.Format == "json" {
		return f.writeJSON(CLIResponse{Status: "error", Error: &CLIError{Code: code, Message: message}})
	}
	_, werr := fmt.Fprintf(f.Writer, "Error: %s\n", message)
	return werr
}

func (f *OutputFormatter) writeJSON(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
