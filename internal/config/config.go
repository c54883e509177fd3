// Package config loads the auth client configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config interface {
	EnvConfig
	ClientConfig
	StorageConfig
	DevServerConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetLogFormat() string
}

type mainConfig struct {
	EnvVars
	Client
	Storage
	DevServer
}

// GetTokenIssuer is shared by the client and the dev server.
func (m mainConfig) GetTokenIssuer() string {
	return m.Client.GetTokenIssuer()
}

// New loads compiled defaults and then overlays environment variables.
// Keys are the lower-cased variable names, e.g. AUTH_BASE_URL -> auth_base_url.
func New() (Config, error) {
	k := koanf.New(".")
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	src := source{k: k}
	return mainConfig{
		EnvVars:   EnvVars{src},
		Client:    Client{src},
		Storage:   Storage{src},
		DevServer: DevServer{src},
	}, nil
}

var defaults = map[string]any{
	appNameKey:        "Go Auth Client",
	envKey:            "DEV",
	logLevelKey:       "info",
	logFormatKey:      "console",
	authBaseURLKey:    "http://localhost:8081/auth",
	authTimeoutKey:    "10s",
	oauthClientIDKey:  "auth-client",
	tokenVerifyKey:    TokenVerifyNone,
	tokenIssuerKey:    "go-auth-dev",
	tokenStoreKey:     TokenStoreFile,
	redisAddrKey:      "localhost:6379",
	redisPrefixKey:    "authclient",
	portKey:           "8081",
	tokenTTLKey:       "1h",
	allowedOriginsKey: "http://localhost:4200",
}

// source reads keys from koanf, falling back to the compiled default when a
// variable is present but empty.
type source struct {
	k *koanf.Koanf
}

func (s source) str(key string) string {
	if s.k == nil {
		return defaultString(key)
	}
	if v := strings.TrimSpace(s.k.String(key)); v != "" {
		return v
	}
	return defaultString(key)
}

func (s source) duration(key string) time.Duration {
	if s.k != nil && strings.TrimSpace(s.k.String(key)) != "" {
		if d := s.k.Duration(key); d > 0 {
			return d
		}
	}
	d, _ := time.ParseDuration(defaultString(key))
	return d
}

func defaultString(key string) string {
	v, _ := defaults[key].(string)
	return v
}
