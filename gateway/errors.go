package gateway

import (
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

type Op string

const (
	OpLogin  Op = "login"
	OpSignUp Op = "signup"
)

// Messages shown to the user when an exchange fails.
const (
	LoginFailedMessage  = "Login failed, please try again."
	SignUpFailedMessage = "Signup failed, please try again."
)

// AuthError is the single error type for a failed login or signup exchange.
// It never carries a partial token.
type AuthError struct {
	Op            Op
	Message       string // Generic, retryable message for the user
	ServerMessage string // "message" field of the error body, if any
	StatusCode    int    // HTTP status, 0 when no response was received
	Err           error
}

func newAuthError(op Op, statusCode int, serverMessage string, err error) *AuthError {
	message := LoginFailedMessage
	if op == OpSignUp {
		message = SignUpFailedMessage
	}
	return &AuthError{
		Op:            op,
		Message:       message,
		ServerMessage: serverMessage,
		StatusCode:    statusCode,
		Err:           err,
	}
}

func (e *AuthError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Op))
	b.WriteString(" failed")
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (%d %s)", e.StatusCode, http.StatusText(e.StatusCode))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{apperrors.ErrTransport}
	}
	return []error{apperrors.ErrTransport, e.Err}
}

// UserMessage prefers the server's own explanation over the generic message.
func (e *AuthError) UserMessage() string {
	if e.ServerMessage != "" {
		return e.ServerMessage
	}
	return e.Message
}

// FieldError is one rejected form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed local validation. Requests
// that fail validation never reach the network.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidation
}

// Field returns the message for the named field, or "" if it passed.
func (e *ValidationError) Field(name string) string {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message
		}
	}
	return ""
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
