package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("AUTH_BASE_URL", "")
	t.Setenv("TOKEN_STORE", "")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "http://localhost:8081/auth", c.GetAuthBaseURL())
	require.Equal(t, 10*time.Second, c.GetAuthTimeout())
	require.Equal(t, config.TokenStoreFile, c.GetTokenStore())
	require.Equal(t, time.Hour, c.GetTokenTTL())
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("AUTH_BASE_URL", "https://auth.example.com/auth")
	t.Setenv("AUTH_TIMEOUT", "3s")
	t.Setenv("TOKEN_STORE", "redis")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, "https://auth.example.com/auth", c.GetAuthBaseURL())
	require.Equal(t, 3*time.Second, c.GetAuthTimeout())
	require.Equal(t, config.TokenStoreRedis, c.GetTokenStore())
	require.Equal(t, "redis:6380", c.GetRedisAddr())
	require.Equal(t, ":9000", c.GetPort())

	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("http://a.test"))
	require.True(t, origins.IsAllowedOrigin("http://b.test"))
	require.False(t, origins.IsAllowedOrigin("http://c.test"))
}

func TestNew_UnknownTokenStoreFallsBackToFile(t *testing.T) {
	t.Setenv("TOKEN_STORE", "floppy")

	c, err := config.New()
	require.NoError(t, err)
	require.Equal(t, config.TokenStoreFile, c.GetTokenStore())
}

func TestNew_TokenVerification(t *testing.T) {
	t.Setenv("TOKEN_VERIFY", "jwks")
	t.Setenv("TOKEN_JWKS_URL", "http://localhost:8081/.well-known/jwks.json")
	t.Setenv("TOKEN_ISSUER", "")
	t.Setenv("SEED_ADMIN_EMAIL", "admin@x.com")
	t.Setenv("SEED_ADMIN_PASSWORD", "Secret1!")

	c, err := config.New()
	require.NoError(t, err)

	require.Equal(t, config.TokenVerifyJWKS, c.GetTokenVerify())
	require.Equal(t, "http://localhost:8081/.well-known/jwks.json", c.GetJWKSURL())
	require.Equal(t, "go-auth-dev", c.GetTokenIssuer())

	email, password := c.GetSeedAdmin()
	require.Equal(t, "admin@x.com", email)
	require.Equal(t, "Secret1!", password)

	t.Setenv("TOKEN_VERIFY", "rot13")
	c, err = config.New()
	require.NoError(t, err)
	require.Equal(t, config.TokenVerifyNone, c.GetTokenVerify())
}
