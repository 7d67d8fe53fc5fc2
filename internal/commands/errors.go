package commands

import (
	"fmt"

	"github.com/pixil98/mudcore/internal/protocol"
)

// UserError represents an error that should be displayed to the user.
// These are not system failures - just invalid input or usage. Nothing has
// been changed when a handler returns one.
type UserError struct {
	Code    string
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

// NewUserError creates a user-facing error for bad input.
func NewUserError(msg string) *UserError {
	return &UserError{Code: protocol.CodeInvalidInput, Message: msg}
}

func userErrorf(format string, args ...any) *UserError {
	return NewUserError(fmt.Sprintf(format, args...))
}

var (
	errAuthRequired  = &UserError{Code: protocol.CodeAuthRequired, Message: "You must log in first."}
	errAlreadyOnline = &UserError{Code: protocol.CodeAlreadyOnline, Message: "That account is already online."}
)
