package errors

import (
	"errors"
	"fmt"
)

// Exit codes for den
const (
	ExitSuccess             = 0
	ExitGeneralError        = 1
	ExitConfigError         = 2
	ExitAllocationExhausted = 3
	ExitGitContextError     = 4
	ExitUnknownAgent        = 5
	ExitWorktreeConflict    = 6
	ExitContainerFailed     = 7
)

// DenError is the base error type for den
type DenError struct {
	Code    int
	Message string
	Cause   error
}

func (e *DenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DenError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *DenError) ExitCode() int {
	return e.Code
}

// New creates a new DenError
func New(code int, message string) *DenError {
	return &DenError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a DenError
func Wrap(code int, message string, cause error) *DenError {
	return &DenError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *DenError {
	return Wrap(ExitConfigError, message, cause)
}

// AllocationExhausted returns an error when slug allocation runs out of attempts
func AllocationExhausted(attempts int) *DenError {
	return New(ExitAllocationExhausted, fmt.Sprintf("could not allocate a unique slug after %d attempts", attempts))
}

// GitContextError returns an error for version control failures
func GitContextError(message string, cause error) *DenError {
	return Wrap(ExitGitContextError, message, cause)
}

// UnknownAgent returns an error for an unrecognized agent key
func UnknownAgent(key string) *DenError {
	return New(ExitUnknownAgent, fmt.Sprintf("unknown agent: %s", key))
}

// WorktreeConflict returns an error for a worktree or branch name collision
func WorktreeConflict(slug string, cause error) *DenError {
	return Wrap(ExitWorktreeConflict, fmt.Sprintf("worktree or branch already exists for %s", slug), cause)
}

// ContainerFailed returns an error for container operations
func ContainerFailed(op string, cause error) *DenError {
	return Wrap(ExitContainerFailed, fmt.Sprintf("container %s failed", op), cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *DenError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var denErr *DenError
	if errors.As(err, &denErr) {
		return denErr.ExitCode()
	}
	return ExitGeneralError
}

// HasCode reports whether err carries the given den exit code.
func HasCode(err error, code int) bool {
	var denErr *DenError
	if errors.As(err, &denErr) {
		return denErr.Code == code
	}
	return false
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
