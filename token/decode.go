package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// Decoder turns a raw token into Claims. Implementations must be
// deterministic, free of side effects and fail closed on malformed input.
type Decoder interface {
	Decode(raw string) (*Claims, error)
}

// DecoderFunc adapts a plain function to Decoder.
type DecoderFunc func(raw string) (*Claims, error)

func (f DecoderFunc) Decode(raw string) (*Claims, error) {
	return f(raw)
}

// Unverified decodes tokens without checking their signature.
var Unverified Decoder = DecoderFunc(Decode)

// DecodeError is returned when a token cannot be parsed into Claims.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode token: %v", e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{apperrors.ErrDecode, e.Err}
}

// Decode parses the claims of a JWT without verifying its signature.
func Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &DecodeError{Err: errors.New("empty token")}
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	mapClaims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, &DecodeError{Err: errors.New("error extracting claims")}
	}
	return claimsFromMap(mapClaims)
}

// claimsFromMap pulls the typed fields out of a claim set. Only a wrongly
// typed exp or iat fails the decode. An identity claim that is a number or a
// bool is rendered as text; any other shape stays in Extra under its own
// name and the typed field is left empty.
func claimsFromMap(m jwtlib.MapClaims) (*Claims, error) {
	exp, err := m.GetExpirationTime()
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	iat, err := m.GetIssuedAt()
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	claims := &Claims{}
	if exp != nil {
		claims.ExpiresAt = exp.Time.UTC()
	}
	if iat != nil {
		claims.IssuedAt = iat.Time.UTC()
	}

	identity := map[string]*string{
		ClaimSubject: &claims.Subject,
		ClaimName:    &claims.Name,
		ClaimEmail:   &claims.Email,
		ClaimRole:    &claims.Role,
	}
	for name, value := range m {
		if name == ClaimIssuedAt || name == ClaimExpiresAt || value == nil {
			continue
		}
		if target, ok := identity[name]; ok {
			if text, ok := claimText(value); ok {
				*target = text
				continue
			}
		}
		if claims.Extra == nil {
			claims.Extra = make(map[string]any)
		}
		claims.Extra[name] = value
	}
	return claims, nil
}

func claimText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}
