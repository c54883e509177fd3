package config

import "time"

const (
	authBaseURLKey   = "auth_base_url"
	authTimeoutKey   = "auth_timeout"
	oauthTokenURLKey = "oauth_token_url"
	oauthClientIDKey = "oauth_client_id"
	tokenVerifyKey   = "token_verify"
	jwksURLKey       = "token_jwks_url"
	tokenIssuerKey   = "token_issuer"
)

// Token verification modes
const (
	TokenVerifyNone = "none" // decode claims without checking the signature
	TokenVerifyHMAC = "hmac" // shared secret, TOKEN_SECRET
	TokenVerifyJWKS = "jwks" // public keys fetched from TOKEN_JWKS_URL
)

type ClientConfig interface {
	GetAuthBaseURL() string
	GetAuthTimeout() time.Duration
	GetOAuthTokenURL() string
	GetOAuthClientID() string
	GetTokenVerify() string
	GetJWKSURL() string
	GetTokenIssuer() string
}

type Client struct {
	source
}

var _ ClientConfig = Client{}

// GetAuthBaseURL returns the base address of the remote auth service,
// e.g. "http://localhost:8081/auth". Sign-in and sign-up paths are appended to it.
func (c Client) GetAuthBaseURL() string {
	return c.str(authBaseURLKey)
}

func (c Client) GetAuthTimeout() time.Duration {
	return c.duration(authTimeoutKey)
}

// GetOAuthTokenURL returns the OAuth2 token endpoint. When set, logins use the
// password grant against it instead of the JSON sign-in endpoint.
func (c Client) GetOAuthTokenURL() string {
	return c.str(oauthTokenURLKey)
}

func (c Client) GetOAuthClientID() string {
	return c.str(oauthClientIDKey)
}

// GetTokenVerify returns one of TokenVerifyNone, TokenVerifyHMAC or TokenVerifyJWKS.
func (c Client) GetTokenVerify() string {
	switch v := c.str(tokenVerifyKey); v {
	case TokenVerifyNone, TokenVerifyHMAC, TokenVerifyJWKS:
		return v
	default:
		return TokenVerifyNone
	}
}

func (c Client) GetJWKSURL() string {
	return c.str(jwksURLKey)
}

// GetTokenIssuer returns the expected "iss" claim. The dev server issues
// tokens with it and JWKS verification checks it when set.
func (c Client) GetTokenIssuer() string {
	return c.str(tokenIssuerKey)
}
