package token_test

import (
	"crypto"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testClaims() token.Claims {
	issued := time.Unix(1_760_000_000, 0).UTC()
	return token.Claims{
		Subject:   "user-1",
		Name:      "Ada Lovelace",
		Email:     "ada@example.com",
		Role:      "admin",
		IssuedAt:  issued,
		ExpiresAt: issued.Add(time.Hour),
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	creator := token.NewCreator(token.NewHMACSigner(testSecret), time.Hour)
	want := testClaims()

	raw, err := creator.Sign(want)
	require.NoError(t, err)

	got, err := token.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, want, *got)
}

func TestDecode_ExtraClaims(t *testing.T) {
	signer := token.NewHMACSigner(testSecret)
	raw, err := signer.Sign(jwtlib.MapClaims{
		"sub":    "user-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"iss":    "auth.example.com",
		"scopes": []string{"read", "write"},
	})
	require.NoError(t, err)

	claims, err := token.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "auth.example.com", claims.ExtraString("iss"))
	require.Equal(t, []string{"read", "write"}, claims.ExtraStrings("scopes"))
	require.Empty(t, claims.Role)
}

func TestDecode_LooselyTypedIdentity(t *testing.T) {
	signer := token.NewHMACSigner(testSecret)
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	raw, err := signer.Sign(jwtlib.MapClaims{
		"sub":   42,
		"name":  "Ada Lovelace",
		"email": true,
		"role":  []string{"admin", "auditor"},
		"exp":   expires.Unix(),
	})
	require.NoError(t, err)

	claims, err := token.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "Ada Lovelace", claims.Name)
	require.Equal(t, "true", claims.Email)
	require.Empty(t, claims.Role)
	require.Equal(t, []string{"admin", "auditor"}, claims.ExtraStrings(token.ClaimRole))
	require.Equal(t, expires.UTC(), claims.ExpiresAt)

	verified, err := token.NewSignatureDecoder(signer).Decode(raw)
	require.NoError(t, err)
	require.Equal(t, claims, verified)
}

func TestDecode_Malformed(t *testing.T) {
	signer := token.NewHMACSigner(testSecret)
	badIssuedAt, err := signer.Sign(jwtlib.MapClaims{"sub": "user-1", "iat": []string{"yesterday"}})
	require.NoError(t, err)
	badExpiry, err := signer.Sign(jwtlib.MapClaims{"sub": "user-1", "exp": "tomorrow"})
	require.NoError(t, err)

	tests := map[string]string{
		"empty":          "",
		"whitespace":     "   ",
		"not a jwt":      "not-a-jwt",
		"garbage parts":  "a.b.c",
		"issued at list": badIssuedAt,
		"expiry as text": badExpiry,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			claims, err := token.Decode(raw)
			require.Nil(t, claims)
			require.Error(t, err)
			require.ErrorIs(t, err, apperrors.ErrDecode)

			var decodeErr *token.DecodeError
			require.ErrorAs(t, err, &decodeErr)
		})
	}
}

func TestClaims_IsExpired(t *testing.T) {
	claims := testClaims()

	require.False(t, claims.IsExpired(claims.ExpiresAt.Add(-time.Second)))
	require.True(t, claims.IsExpired(claims.ExpiresAt))
	require.True(t, claims.IsExpired(claims.ExpiresAt.Add(time.Second)))

	require.True(t, (&token.Claims{Subject: "no-expiry"}).IsExpired(time.Now()))

	var nilClaims *token.Claims
	require.True(t, nilClaims.IsExpired(time.Now()))
}

func TestCreator_Mint(t *testing.T) {
	now := time.Unix(1_760_000_000, 0).UTC()
	restore := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = restore })

	creator := token.NewCreator(token.NewHMACSigner(testSecret), 15*time.Minute)
	raw, err := creator.Mint(token.Claims{Subject: "user-1", Email: "a@x.com"})
	require.NoError(t, err)

	claims, err := token.Decode(raw)
	require.NoError(t, err)
	require.Equal(t, now, claims.IssuedAt)
	require.Equal(t, now.Add(15*time.Minute), claims.ExpiresAt)
	require.NotEmpty(t, claims.ExtraString(token.ClaimTokenID))

	other, err := creator.Mint(token.Claims{Subject: "user-1"})
	require.NoError(t, err)
	otherClaims, err := token.Decode(other)
	require.NoError(t, err)
	require.NotEqual(t, claims.ExtraString(token.ClaimTokenID), otherClaims.ExtraString(token.ClaimTokenID))
}

func TestSignatureDecoder(t *testing.T) {
	decoder := token.NewSignatureDecoder(token.NewHMACSigner(testSecret))

	t.Run("accepts own signature", func(t *testing.T) {
		raw, err := token.NewCreator(token.NewHMACSigner(testSecret), time.Hour).Sign(testClaims())
		require.NoError(t, err)

		claims, err := decoder.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "admin", claims.Role)
	})

	t.Run("accepts expired token", func(t *testing.T) {
		expired := testClaims()
		expired.ExpiresAt = time.Unix(1, 0).UTC()
		raw, err := token.NewCreator(token.NewHMACSigner(testSecret), time.Hour).Sign(expired)
		require.NoError(t, err)

		claims, err := decoder.Decode(raw)
		require.NoError(t, err)
		require.True(t, claims.IsExpired(time.Now()))
	})

	t.Run("rejects other secret", func(t *testing.T) {
		raw, err := token.NewCreator(token.NewHMACSigner("other-secret"), time.Hour).Sign(testClaims())
		require.NoError(t, err)

		_, err = decoder.Decode(raw)
		require.ErrorIs(t, err, apperrors.ErrDecode)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("malformed token is not a signature failure", func(t *testing.T) {
		_, err := decoder.Decode("not-a-jwt")
		require.ErrorIs(t, err, apperrors.ErrDecode)
		require.NotErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects other algorithm", func(t *testing.T) {
		keyPair, err := token.GenerateRSAKeyPair("kid-1", 2048)
		require.NoError(t, err)
		raw, err := token.NewCreator(token.NewKeyPairSigner(keyPair), time.Hour).Sign(testClaims())
		require.NoError(t, err)

		_, err = decoder.Decode(raw)
		require.ErrorIs(t, err, apperrors.ErrDecode)
	})
}

func TestOIDCDecoder(t *testing.T) {
	const issuer = "https://issuer.example.com"

	keyPair, err := token.GenerateRSAKeyPair("kid-1", 2048)
	require.NoError(t, err)
	otherKeyPair, err := token.GenerateRSAKeyPair("kid-2", 2048)
	require.NoError(t, err)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{keyPair.PublicKey}}
	decoder := token.NewOIDCDecoder(issuer, keySet, "")

	claims := testClaims()
	claims.Extra = map[string]any{"iss": issuer}

	t.Run("verifies and decodes", func(t *testing.T) {
		raw, err := token.NewCreator(token.NewKeyPairSigner(keyPair), time.Hour).Sign(claims)
		require.NoError(t, err)

		got, err := decoder.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "ada@example.com", got.Email)
		require.Equal(t, "Ada Lovelace", got.Name)
		require.Equal(t, claims.ExpiresAt, got.ExpiresAt)
	})

	t.Run("rejects unknown key", func(t *testing.T) {
		raw, err := token.NewCreator(token.NewKeyPairSigner(otherKeyPair), time.Hour).Sign(claims)
		require.NoError(t, err)

		_, err = decoder.Decode(raw)
		require.ErrorIs(t, err, apperrors.ErrDecode)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		wrongIssuer := testClaims()
		wrongIssuer.Extra = map[string]any{"iss": "https://elsewhere.example.com"}
		raw, err := token.NewCreator(token.NewKeyPairSigner(keyPair), time.Hour).Sign(wrongIssuer)
		require.NoError(t, err)

		_, err = decoder.Decode(raw)
		require.ErrorIs(t, err, apperrors.ErrDecode)
	})
}

func TestKeyPairSigner_JWKS(t *testing.T) {
	keyPair, err := token.GenerateRSAKeyPair("kid-1", 2048)
	require.NoError(t, err)

	jwks, err := token.NewKeyPairSigner(keyPair).JWKS()
	require.NoError(t, err)
	require.Len(t, jwks.Keys, 1)

	jwk := jwks.Keys[0]
	require.Equal(t, "RSA", jwk.Kty)
	require.Equal(t, "kid-1", jwk.Kid)
	require.Equal(t, token.RS256, jwk.Alg)
	require.Equal(t, "AQAB", jwk.E)
	require.NotEmpty(t, jwk.N)
}

func TestNewSigner(t *testing.T) {
	t.Run("Secret selects HMAC", func(t *testing.T) {
		signer, err := token.NewSigner(token.SignerConfig{Secret: testSecret, KeyFile: filepath.Join(t.TempDir(), "key.pem")})
		require.NoError(t, err)
		require.IsType(t, &token.HMACSigner{}, signer)
	})

	t.Run("Key file is created and reused", func(t *testing.T) {
		keyFile := filepath.Join(t.TempDir(), "keys", "signing.pem")

		first, err := token.NewSigner(token.SignerConfig{KeyID: "dev", KeyFile: keyFile})
		require.NoError(t, err)
		info, err := os.Stat(keyFile)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		raw, err := token.NewCreator(first, time.Hour).Mint(testClaims())
		require.NoError(t, err)

		second, err := token.NewSigner(token.SignerConfig{KeyID: "dev", KeyFile: keyFile})
		require.NoError(t, err)
		got, err := token.NewSignatureDecoder(second).Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "user-1", got.Subject)
	})

	t.Run("Corrupt key file fails", func(t *testing.T) {
		keyFile := filepath.Join(t.TempDir(), "signing.pem")
		require.NoError(t, os.WriteFile(keyFile, []byte("garbage"), 0o600))

		_, err := token.NewSigner(token.SignerConfig{KeyFile: keyFile})
		require.Error(t, err)
	})
}
