package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// OAuth2Client logs in with the OAuth2 resource owner password grant and
// hands sign-ups to a JSON Client, since OAuth2 has no registration flow.
type OAuth2Client struct {
	config     *oauth2.Config
	signUp     Gateway
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ Gateway = (*OAuth2Client)(nil)

type OAuth2Option func(*OAuth2Client)

// WithOAuth2HTTPClient sets the client used to reach the token endpoint.
func WithOAuth2HTTPClient(c *http.Client) OAuth2Option {
	return func(o *OAuth2Client) {
		o.httpClient = c
	}
}

func WithOAuth2Logger(logger zerolog.Logger) OAuth2Option {
	return func(o *OAuth2Client) {
		o.logger = logger
	}
}

// NewOAuth2Client creates a password-grant gateway against tokenURL.
func NewOAuth2Client(tokenURL, clientID string, signUp Gateway, opts ...OAuth2Option) (*OAuth2Client, error) {
	if tokenURL == "" {
		return nil, fmt.Errorf("[NewOAuth2Client] token URL is required")
	}
	if clientID == "" {
		return nil, fmt.Errorf("[NewOAuth2Client] client ID is required")
	}
	if signUp == nil {
		return nil, fmt.Errorf("[NewOAuth2Client] sign-up gateway is required")
	}

	o := &OAuth2Client{
		config: &oauth2.Config{
			ClientID: clientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{"openid", "profile", "email"},
		},
		signUp: signUp,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Login returns the id_token from the token response when present, since it
// carries the identity claims, and the access token otherwise.
func (o *OAuth2Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}

	tok, err := o.config.PasswordCredentialsToken(ctx, creds.Email, creds.Password)
	if err != nil {
		authErr := fromRetrieveError(err)
		o.logger.Error().Err(authErr).Msg("password grant failed")
		return "", authErr
	}

	if idToken, ok := tok.Extra("id_token").(string); ok && strings.TrimSpace(idToken) != "" {
		return idToken, nil
	}
	if tok.AccessToken == "" {
		return "", newAuthError(OpLogin, http.StatusOK, "", errors.New("token response contained no token"))
	}
	return tok.AccessToken, nil
}

func (o *OAuth2Client) SignUp(ctx context.Context, reg Registration) (string, error) {
	return o.signUp.SignUp(ctx, reg)
}

func fromRetrieveError(err error) *AuthError {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) {
		return newAuthError(OpLogin, 0, "", err)
	}

	statusCode := 0
	if retrieveErr.Response != nil {
		statusCode = retrieveErr.Response.StatusCode
	}

	serverMessage := retrieveErr.ErrorDescription
	if serverMessage == "" {
		var body errorResponse
		if json.Unmarshal(retrieveErr.Body, &body) == nil {
			serverMessage = body.Message
		}
	}
	return newAuthError(OpLogin, statusCode, serverMessage, err)
}
