package errors

import (
	"errors"
	"fmt"
)

// Common error types for the auth client
var (
	// Session errors
	ErrNoSession      = errors.New("no session")
	ErrStaleResponse  = errors.New("stale authentication response")
	ErrNoGateway      = errors.New("no auth gateway configured")
	ErrSessionExpired = errors.New("session expired")

	// Token errors
	ErrDecode       = errors.New("token decode failed")
	ErrInvalidToken = errors.New("invalid token")

	// Gateway errors
	ErrTransport  = errors.New("auth transport failure")
	ErrValidation = errors.New("validation failed")

	// Storage errors
	ErrStorage  = errors.New("token storage failure")
	ErrNotFound = errors.New("not found")

	// Dev server errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
