package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jrsteele09/go-auth-client/gateway"
	"github.com/jrsteele09/go-auth-client/internal/config"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var current *app

	cmd := &cobra.Command{
		Use:   "authctl",
		Short: "Manage the local authentication session",
		Long: `authctl keeps one authentication session for this machine. The session
token is stored according to TOKEN_STORE (file, memory or redis) and is
read back by every command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			current, err = newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(session.NewContext(cmd.Context(), current.store))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if current == nil {
				return nil
			}
			return current.Close()
		},
	}

	cmd.AddCommand(
		newLoginCmd(),
		newSignUpCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newWhoAmICmd(),
		newHeaderCmd(),
	)
	return cmd
}

// storeFrom returns the session store installed by the root command.
func storeFrom(cmd *cobra.Command) (*session.Store, error) {
	store, ok := session.FromContext(cmd.Context())
	if !ok {
		return nil, errors.New("session store not initialised")
	}
	return store, nil
}

// reportError prints err the way a user should see it.
func reportError(w io.Writer, err error) {
	var authErr *gateway.AuthError
	var validationErr *gateway.ValidationError
	switch {
	case apperrors.As(err, &authErr):
		fmt.Fprintln(w, authErr.UserMessage())
	case apperrors.As(err, &validationErr):
		for _, field := range validationErr.Fields {
			fmt.Fprintf(w, "%s: %s\n", field.Field, field.Message)
		}
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
