package token

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// ClaimTokenID is the unique token ID claim added by Mint.
const ClaimTokenID = "jti"

// Creator mints signed session tokens. The client never mints its own
// tokens; the dev server and tests do.
type Creator struct {
	signer Signer
	ttl    time.Duration
}

// NewCreator creates a token creator issuing tokens valid for ttl
func NewCreator(signer Signer, ttl time.Duration) *Creator {
	return &Creator{
		signer: signer,
		ttl:    ttl,
	}
}

// Sign signs claims exactly as given.
func (c *Creator) Sign(claims Claims) (string, error) {
	signedToken, err := c.signer.Sign(claims.MapClaims())
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signedToken, nil
}

// Mint fills in iat, exp and jti when they are unset and signs the result.
func (c *Creator) Mint(claims Claims) (string, error) {
	now := NowTimeFunc()
	if claims.IssuedAt.IsZero() {
		claims.IssuedAt = now
	}
	if claims.ExpiresAt.IsZero() {
		claims.ExpiresAt = now.Add(c.ttl)
	}

	extra := make(map[string]any, len(claims.Extra)+1)
	for k, v := range claims.Extra {
		extra[k] = v
	}
	if _, ok := extra[ClaimTokenID]; !ok {
		extra[ClaimTokenID] = uuid.New().String()
	}
	claims.Extra = extra

	return c.Sign(claims)
}
