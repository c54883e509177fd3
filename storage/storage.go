// Package storage holds the durable slot the session token lives in.
package storage

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// TokenKey is the fixed name the session token is stored under.
const TokenKey = "token"

// TokenStorage is a single named slot holding the raw token string. An empty
// slot means there is no session.
type TokenStorage interface {
	// Get returns the stored token, or errors.ErrNotFound when the slot is empty.
	Get(ctx context.Context) (string, error)

	// Set replaces the stored token.
	Set(ctx context.Context, token string) error

	// Remove clears the slot. Removing an empty slot is not an error.
	Remove(ctx context.Context) error
}

// storageErr marks a backend failure so callers can tell it apart from an empty slot.
func storageErr(err error) error {
	return errors.Join(apperrors.ErrStorage, err)
}
