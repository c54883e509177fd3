package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Verifier is what SignatureDecoder needs to check a token: the single
// algorithm it accepts and the key for it.
type Verifier interface {
	Algorithm() string
	VerificationKey(token *jwt.Token) (any, error)
}

// Signer mints tokens for the dev server and tests. Every Signer can verify
// what it signs.
type Signer interface {
	Verifier
	Sign(claims jwt.MapClaims) (string, error)
}

// HMACSigner signs HS256 tokens with a shared secret.
type HMACSigner struct {
	secret []byte
}

var _ Signer = (*HMACSigner)(nil)

func NewHMACSigner(secret string) *HMACSigner {
	return &HMACSigner{secret: []byte(secret)}
}

func (h *HMACSigner) Algorithm() string {
	return jwt.SigningMethodHS256.Alg()
}

func (h *HMACSigner) Sign(claims jwt.MapClaims) (string, error) {
	return signWith(jwt.SigningMethodHS256, "", h.secret, claims)
}

func (h *HMACSigner) VerificationKey(token *jwt.Token) (any, error) {
	if err := checkAlg(token, h.Algorithm()); err != nil {
		return nil, err
	}
	return h.secret, nil
}

// KeyPairSigner signs RS256 tokens and publishes the public key as a JWKS.
type KeyPairSigner struct {
	keyPair *KeyPair
}

var _ Signer = (*KeyPairSigner)(nil)

func NewKeyPairSigner(keyPair *KeyPair) *KeyPairSigner {
	return &KeyPairSigner{keyPair: keyPair}
}

func (a *KeyPairSigner) Algorithm() string {
	return a.keyPair.GetSigningMethod().Alg()
}

// Sign adds the key ID header so JWKS consumers can pick the key.
func (a *KeyPairSigner) Sign(claims jwt.MapClaims) (string, error) {
	return signWith(a.keyPair.GetSigningMethod(), a.keyPair.KeyID, a.keyPair.PrivateKey, claims)
}

func (a *KeyPairSigner) VerificationKey(token *jwt.Token) (any, error) {
	if err := checkAlg(token, a.Algorithm()); err != nil {
		return nil, err
	}
	return a.keyPair.PublicKey, nil
}

// JWKS returns the key set verifiers need to check this signer's tokens.
func (a *KeyPairSigner) JWKS() (*JWKS, error) {
	jwk, err := a.keyPair.ToJWK()
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert key to JWK")
	}
	return &JWKS{Keys: []JWK{*jwk}}, nil
}

func signWith(method jwt.SigningMethod, keyID string, key any, claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(method, claims)
	if keyID != "" {
		token.Header["kid"] = keyID
	}
	signed, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrapf(err, "failed to sign %s token", method.Alg())
	}
	return signed, nil
}

func checkAlg(token *jwt.Token, want string) error {
	if token.Method == nil || token.Method.Alg() != want {
		return errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return nil
}
