package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-auth-client/gateway"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		email         string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFrom(cmd)
			if err != nil {
				return err
			}
			password, err := readPassword(cmd, passwordStdin, false)
			if err != nil {
				return err
			}

			claims, err := store.Login(cmd.Context(), gateway.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", displayName(claims.Name, claims.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignUpCmd() *cobra.Command {
	var (
		reg           gateway.Registration
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFrom(cmd)
			if err != nil {
				return err
			}
			password, err := readPassword(cmd, passwordStdin, false)
			if err != nil {
				return err
			}
			reg.Password = password
			reg.ConfirmPassword = password
			if !passwordStdin {
				if reg.ConfirmPassword, err = readPassword(cmd, false, true); err != nil {
					return err
				}
			}

			claims, err := store.SignUp(cmd.Context(), reg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registration successful, logged in as %s\n", displayName(claims.Name, claims.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&reg.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Address, "address", "", "postal address")
	cmd.Flags().BoolVar(&reg.AcceptTerms, "accept-terms", false, "accept the terms of service")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFrom(cmd)
			if err != nil {
				return err
			}
			store.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show who is logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFrom(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderStatus(store.Snapshot(), store.IsAuthenticated(cmd.Context())))
			return nil
		},
	}
}

func newWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the session claims as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFrom(cmd)
			if err != nil {
				return err
			}
			claims := store.CurrentClaims()
			if claims == nil {
				return apperrors.ErrNoSession
			}

			data, err := json.MarshalIndent(claims.MapClaims(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newHeaderCmd() *cobra.Command {
	var requireValid bool

	cmd := &cobra.Command{
		Use:   "header",
		Short: "Print the Authorization header value",
		Long: `Prints "Bearer <token>" for use in scripts, e.g.
  curl -H "Authorization: $(authctl header)" ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storeFrom(cmd)
			if err != nil {
				return err
			}
			if requireValid && !store.IsAuthenticated(cmd.Context()) {
				return apperrors.ErrSessionExpired
			}
			header, ok := store.AuthorizationHeaderValue(cmd.Context())
			if !ok {
				return apperrors.ErrNoSession
			}
			fmt.Fprintln(cmd.OutOrStdout(), header)
			return nil
		},
	}
	cmd.Flags().BoolVar(&requireValid, "valid", false, "fail unless the session is still valid")
	return cmd
}

func displayName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return fmt.Sprintf("%s <%s>", name, email)
	}
	return email
}
