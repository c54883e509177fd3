package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	signInPath       = "/signin"
	signUpPath       = "/signup"
	contentTypeJSON  = "application/json"
	maxResponseBytes = 1 << 20
	defaultTimeout   = 10 * time.Second
)

// Client is a Gateway speaking JSON over HTTP to {baseURL}/signin and
// {baseURL}/signup.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ Gateway = (*Client)(nil)

type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient.Timeout = d
		}
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient creates a JSON gateway client for baseURL, e.g. http://localhost:8081/auth.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("[NewClient] base URL is required")
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	return c.exchange(ctx, OpLogin, signInPath, creds)
}

func (c *Client) SignUp(ctx context.Context, reg Registration) (string, error) {
	return c.exchange(ctx, OpSignUp, signUpPath, reg)
}

func (c *Client) exchange(ctx context.Context, op Op, path string, body any) (string, error) {
	token, err := c.post(ctx, op, path, body)
	if err != nil {
		c.logger.Error().Err(err).Str("op", string(op)).Msg("auth exchange failed")
		return "", err
	}
	return token, nil
}

func (c *Client) post(ctx context.Context, op Op, path string, body any) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", newAuthError(op, 0, "", fmt.Errorf("encoding request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return "", newAuthError(op, 0, "", fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", newAuthError(op, 0, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", newAuthError(op, resp.StatusCode, "", fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody errorResponse
		_ = json.Unmarshal(data, &errBody)
		return "", newAuthError(op, resp.StatusCode, strings.TrimSpace(errBody.Message),
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var authResp AuthResponse
	if err := json.Unmarshal(data, &authResp); err != nil {
		return "", newAuthError(op, resp.StatusCode, "", fmt.Errorf("decoding response: %w", err))
	}
	token := strings.TrimSpace(authResp.Token)
	if token == "" {
		return "", newAuthError(op, resp.StatusCode, "", fmt.Errorf("response contained no token"))
	}
	return token, nil
}
