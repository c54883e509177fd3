// Command devauth runs the development auth server that authctl and the
// session tests log in against.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-auth-client/devserver"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/logging"
	"github.com/jrsteele09/go-auth-client/token"
	fakeuserrepo "github.com/jrsteele09/go-auth-client/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, nil, os.Stdout); err != nil {
		log.Error().Err(err).Msg("devauth stopped")
		stop()
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

// run serves until ctx is cancelled. A nil ln listens on the configured port.
func run(ctx context.Context, ln net.Listener, out io.Writer) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New: %w", err)
	}
	displayAppname(out, cfg.GetAppName())
	logger := logging.New(logging.Config{
		Level:  cfg.GetLogLevel(),
		Format: cfg.GetLogFormat(),
		App:    cfg.GetAppName(),
		Env:    cfg.GetEnv(),
	}, out)

	signer, err := newSigner(cfg, logger)
	if err != nil {
		return err
	}
	handler, err := devserver.New(cfg, fakeuserrepo.NewFakeUserRepo(), signer, devserver.WithLogger(logger))
	if err != nil {
		return err
	}

	if ln == nil {
		if ln, err = net.Listen("tcp", cfg.GetPort()); err != nil {
			return fmt.Errorf("net.Listen %s: %w", cfg.GetPort(), err)
		}
	}
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", ln.Addr().String()).Msg("Server listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.Serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server.Shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// newSigner signs with TOKEN_SECRET when set, otherwise with an RSA key
// whose public half is served at the JWKS route.
func newSigner(cfg config.Config, logger zerolog.Logger) (token.Signer, error) {
	signer, err := token.NewSigner(token.SignerConfig{
		Secret:  cfg.GetTokenSecret(),
		KeyID:   "devauth",
		KeyFile: cfg.GetTokenKeyFile(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating token signer: %w", err)
	}
	logger.Info().Str("alg", signer.Algorithm()).Str("key_file", cfg.GetTokenKeyFile()).Msg("token signer ready")
	return signer, nil
}

func displayAppname(w io.Writer, appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	fmt.Fprintln(w, myFigure.String())
}
