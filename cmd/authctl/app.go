package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jrsteele09/go-auth-client/gateway"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/logging"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/storage"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// app holds the process-wide session store and whatever must be closed with it.
type app struct {
	cfg     config.Config
	logger  zerolog.Logger
	store   *session.Store
	closers []func() error
}

func newApp(ctx context.Context, cfg config.Config, logOutput io.Writer) (*app, error) {
	a := &app{
		cfg: cfg,
		logger: logging.New(logging.Config{
			Level:  cfg.GetLogLevel(),
			Format: cfg.GetLogFormat(),
			App:    cfg.GetAppName(),
			Env:    cfg.GetEnv(),
		}, logOutput),
	}

	tokenStorage, err := a.newTokenStorage()
	if err != nil {
		return nil, err
	}
	decoder, err := newDecoder(ctx, cfg)
	if err != nil {
		return nil, err
	}
	gw, err := a.newGateway()
	if err != nil {
		return nil, err
	}

	a.store, err = session.New(tokenStorage,
		session.WithDecoder(decoder),
		session.WithGateway(gw),
		session.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	a.store.InitializeFromStorage(ctx)
	return a, nil
}

func (a *app) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *app) newTokenStorage() (storage.TokenStorage, error) {
	switch a.cfg.GetTokenStore() {
	case config.TokenStoreMemory:
		return storage.NewMemory(), nil
	case config.TokenStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: a.cfg.GetRedisAddr()})
		a.closers = append(a.closers, client.Close)
		return storage.NewRedis(client, a.cfg.GetRedisPrefix()), nil
	default:
		file := storage.NewFile(a.cfg.GetTokenFile(), a.cfg.GetAppName())
		a.logger.Debug().Str("path", file.Path()).Msg("using token file")
		return file, nil
	}
}

func newDecoder(ctx context.Context, cfg config.Config) (token.Decoder, error) {
	switch cfg.GetTokenVerify() {
	case config.TokenVerifyHMAC:
		secret := cfg.GetTokenSecret()
		if secret == "" {
			return nil, fmt.Errorf("TOKEN_SECRET is required when TOKEN_VERIFY=%s", config.TokenVerifyHMAC)
		}
		return token.NewSignatureDecoder(token.NewHMACSigner(secret)), nil
	case config.TokenVerifyJWKS:
		jwksURL := cfg.GetJWKSURL()
		if jwksURL == "" {
			return nil, fmt.Errorf("TOKEN_JWKS_URL is required when TOKEN_VERIFY=%s", config.TokenVerifyJWKS)
		}
		return token.NewRemoteOIDCDecoder(ctx, cfg.GetTokenIssuer(), jwksURL, ""), nil
	default:
		return token.Unverified, nil
	}
}

func (a *app) newGateway() (gateway.Gateway, error) {
	jsonClient, err := gateway.NewClient(a.cfg.GetAuthBaseURL(),
		gateway.WithTimeout(a.cfg.GetAuthTimeout()),
		gateway.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}

	tokenURL := a.cfg.GetOAuthTokenURL()
	if tokenURL == "" {
		return jsonClient, nil
	}
	return gateway.NewOAuth2Client(tokenURL, a.cfg.GetOAuthClientID(), jsonClient,
		gateway.WithOAuth2HTTPClient(&http.Client{Timeout: a.cfg.GetAuthTimeout()}),
		gateway.WithOAuth2Logger(a.logger),
	)
}
