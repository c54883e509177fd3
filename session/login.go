package session

import (
	"context"

	"github.com/jrsteele09/go-auth-client/gateway"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/pkg/errors"
)

// Login validates creds, exchanges them for a token and applies it. A failed
// exchange returns the gateway's *gateway.AuthError and leaves the session
// untouched. If Logout, ApplyToken or a newer Login/SignUp ran while the
// request was in flight the response is dropped with ErrStaleResponse.
func (s *Store) Login(ctx context.Context, creds gateway.Credentials) (*token.Claims, error) {
	if s.gateway == nil {
		return nil, apperrors.ErrNoGateway
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	gen := s.generation.Add(1)
	raw, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.applyResponse(ctx, gen, gateway.OpLogin, raw)
}

// SignUp registers a new account and, like Login, applies the token the
// service returns.
func (s *Store) SignUp(ctx context.Context, reg gateway.Registration) (*token.Claims, error) {
	if s.gateway == nil {
		return nil, apperrors.ErrNoGateway
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	gen := s.generation.Add(1)
	raw, err := s.gateway.SignUp(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.applyResponse(ctx, gen, gateway.OpSignUp, raw)
}

func (s *Store) applyResponse(ctx context.Context, gen uint64, op gateway.Op, raw string) (*token.Claims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current := s.generation.Load(); current != gen {
		s.logger.Warn().
			Str("op", string(op)).
			Uint64("request_generation", gen).
			Uint64("current_generation", current).
			Msg("discarding superseded auth response")
		return nil, errors.Wrapf(apperrors.ErrStaleResponse, "%s response", op)
	}

	if err := s.applyLocked(ctx, raw); err != nil {
		return nil, errors.Wrapf(err, "applying %s token", op)
	}
	return s.claims.Load(), nil
}
