package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-auth-client/internal/utils"
)

// Registered claim names read into Claims fields. Anything else lands in Extra.
const (
	ClaimSubject   = "sub"
	ClaimName      = "name"
	ClaimEmail     = "email"
	ClaimRole      = "role"
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
)

// Claims is the identity data carried by a session token. Claims are always
// derived from the token they were decoded from and are never stored on
// their own.
type Claims struct {
	Subject   string         `json:"sub,omitempty"`   // User's unique ID
	Name      string         `json:"name,omitempty"`  // Display name
	Email     string         `json:"email,omitempty"` // User's email address
	Role      string         `json:"role,omitempty"`  // Role as issued by the auth service
	IssuedAt  time.Time      `json:"iat,omitempty"`   // Issued at time
	ExpiresAt time.Time      `json:"exp,omitempty"`   // Expiry, zero when the token carries none
	Extra     map[string]any `json:"-"`               // Any further claims (iss, aud, jti, ...)
}

// IsExpired reports whether the claims are no longer valid at now. A token
// without an expiry is treated as expired.
func (c *Claims) IsExpired(now time.Time) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(c.ExpiresAt)
}

// ExtraString returns the named extra claim when it is a string.
func (c *Claims) ExtraString(name string) string {
	if c == nil {
		return ""
	}
	s, _ := c.Extra[name].(string)
	return s
}

// ExtraStrings returns the named extra claim when it is an array, keeping only string elements.
func (c *Claims) ExtraStrings(name string) []string {
	if c == nil {
		return nil
	}
	values, ok := c.Extra[name].([]any)
	if !ok {
		return nil
	}
	return utils.ToStringSlice(values)
}

// MapClaims converts the claims back into the JWT claim set they represent.
func (c Claims) MapClaims() jwtlib.MapClaims {
	claims := jwtlib.MapClaims{}
	for k, v := range c.Extra {
		claims[k] = v
	}
	setIfNotEmpty(claims, ClaimSubject, c.Subject)
	setIfNotEmpty(claims, ClaimName, c.Name)
	setIfNotEmpty(claims, ClaimEmail, c.Email)
	setIfNotEmpty(claims, ClaimRole, c.Role)
	if !c.IssuedAt.IsZero() {
		claims[ClaimIssuedAt] = c.IssuedAt.Unix()
	}
	if !c.ExpiresAt.IsZero() {
		claims[ClaimExpiresAt] = c.ExpiresAt.Unix()
	}
	return claims
}

func setIfNotEmpty(claims jwtlib.MapClaims, name, value string) {
	if value != "" {
		claims[name] = value
	}
}
