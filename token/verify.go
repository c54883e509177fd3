package token

import (
	"context"
	"errors"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// SignatureDecoder decodes tokens only after checking their signature with a
// Verifier. Expiry is not enforced here; the session decides validity.
type SignatureDecoder struct {
	verifier Verifier
	parser   *jwtlib.Parser
}

var _ Decoder = (*SignatureDecoder)(nil)

// NewSignatureDecoder creates a decoder that accepts only tokens verifier
// vouches for. Any Signer can be passed.
func NewSignatureDecoder(verifier Verifier) *SignatureDecoder {
	return &SignatureDecoder{
		verifier: verifier,
		parser: jwtlib.NewParser(
			jwtlib.WithValidMethods([]string{verifier.Algorithm()}),
			jwtlib.WithoutClaimsValidation(),
		),
	}
}

func (d *SignatureDecoder) Decode(raw string) (*Claims, error) {
	token, err := d.parser.ParseWithClaims(raw, jwtlib.MapClaims{}, d.verifier.VerificationKey)
	if errors.Is(err, jwtlib.ErrTokenMalformed) {
		return nil, &DecodeError{Err: err}
	}
	if err != nil {
		return nil, &DecodeError{Err: apperrors.Wrapf(invalidToken(err), "invalid token signature")}
	}
	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, &DecodeError{Err: errors.New("error extracting claims from token")}
	}
	return claimsFromMap(mapClaims)
}

const defaultOIDCTimeout = 10 * time.Second

// OIDCDecoder verifies tokens against an OpenID Connect key set before
// decoding them.
type OIDCDecoder struct {
	verifier *oidc.IDTokenVerifier
	timeout  time.Duration
}

var _ Decoder = (*OIDCDecoder)(nil)

// NewOIDCDecoder creates a decoder backed by keySet. An empty issuer or
// clientID disables the corresponding check.
func NewOIDCDecoder(issuer string, keySet oidc.KeySet, clientID string) *OIDCDecoder {
	return &OIDCDecoder{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{
			ClientID:          clientID,
			SkipClientIDCheck: clientID == "",
			SkipIssuerCheck:   issuer == "",
			SkipExpiryCheck:   true,
		}),
		timeout: defaultOIDCTimeout,
	}
}

// NewRemoteOIDCDecoder fetches verification keys from a JWKS endpoint.
func NewRemoteOIDCDecoder(ctx context.Context, issuer, jwksURL, clientID string) *OIDCDecoder {
	return NewOIDCDecoder(issuer, oidc.NewRemoteKeySet(ctx, jwksURL), clientID)
}

func (d *OIDCDecoder) Decode(raw string) (*Claims, error) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	idToken, err := d.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, &DecodeError{Err: invalidToken(err)}
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return claimsFromMap(jwtlib.MapClaims(claims))
}

// invalidToken marks a token that parsed but failed verification.
func invalidToken(err error) error {
	return errors.Join(apperrors.ErrInvalidToken, err)
}
