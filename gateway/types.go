// Package gateway talks to the remote authentication service.
package gateway

import (
	"context"
)

// Gateway exchanges credentials for a session token. Every failure is
// reported as an *AuthError.
type Gateway interface {
	Login(ctx context.Context, creds Credentials) (string, error)
	SignUp(ctx context.Context, reg Registration) (string, error)
}

// Credentials is the sign-in request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request body. ConfirmPassword and AcceptTerms
// are only checked locally and are never sent.
type Registration struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	AcceptTerms     bool   `json:"-"`
}

// AuthResponse is returned by both sign-in and sign-up.
type AuthResponse struct {
	Token string `json:"token"`
}

// errorResponse is the body the service sends with a non-2xx status.
type errorResponse struct {
	Message string `json:"message"`
}
