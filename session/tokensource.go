package session

import (
	"context"
	"net/http"

	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"golang.org/x/oauth2"
)

var _ oauth2.TokenSource = (*Store)(nil)

// Token implements oauth2.TokenSource. It reads the store on every call so a
// logout takes effect on the next request. Expired sessions are refused
// because there is nothing to refresh them with.
func (s *Store) Token() (*oauth2.Token, error) {
	ctx := context.Background()

	raw, err := s.storage.Get(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNoSession
		}
		return nil, err
	}

	claims, err := s.decoder.Decode(raw)
	if err != nil {
		return nil, err
	}
	if claims.IsExpired(s.nowTime()) {
		return nil, apperrors.ErrSessionExpired
	}

	return &oauth2.Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		Expiry:      claims.ExpiresAt,
	}, nil
}

// HTTPClient returns a client that sends the session's bearer credential
// with every request. A nil base uses http.DefaultTransport.
func (s *Store) HTTPClient(base http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: s,
			Base:   base,
		},
	}
}
