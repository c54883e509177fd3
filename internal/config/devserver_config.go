package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	portKey           = "port"
	tokenSecretKey    = "token_secret"
	tokenTTLKey       = "token_ttl"
	allowedOriginsKey = "cors_allowed_origins"
	seedEmailKey      = "seed_admin_email"
	seedPasswordKey   = "seed_admin_password"
	tokenKeyFileKey   = "token_key_file"
)

// DevServerConfig configures the local development auth server.
type DevServerConfig interface {
	GetPort() string
	GetTokenSecret() string
	GetTokenKeyFile() string
	GetTokenTTL() time.Duration
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
	GetTokenIssuer() string
	GetSeedAdmin() (email, password string)
}

type DevServer struct {
	source
}

var _ DevServerConfig = DevServer{}

func (d DevServer) GetPort() string {
	port := d.str(portKey)
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

// GetTokenSecret returns the HMAC secret tokens are signed with. Empty means
// the server signs with a generated RSA key and publishes it as a JWKS.
func (d DevServer) GetTokenSecret() string {
	return d.str(tokenSecretKey)
}

// GetTokenKeyFile returns where the RS256 signing key is kept. Empty means a
// new key on every start.
func (d DevServer) GetTokenKeyFile() string {
	return d.str(tokenKeyFileKey)
}

func (d DevServer) GetTokenTTL() time.Duration {
	return d.duration(tokenTTLKey)
}

func (d DevServer) GetAllowedOrigins() AllowedOrigins {
	return parseAllowedOrigins(d.str(allowedOriginsKey))
}

func (DevServer) GetAllowedMethods() string {
	return "GET, POST, OPTIONS"
}

func (DevServer) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}

func (d DevServer) GetTokenIssuer() string {
	return d.str(tokenIssuerKey)
}

// GetSeedAdmin returns the admin account created at startup. Both are empty
// when no account should be seeded.
func (d DevServer) GetSeedAdmin() (email, password string) {
	return d.str(seedEmailKey), d.str(seedPasswordKey)
}
