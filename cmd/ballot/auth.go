package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type credentialsFlags struct {
	name     string
	email    string
	password string
}

func newLoginCmd() *cobra.Command {
	f := &credentialsFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in and store the session for later commands. The password is
read from standard input when --password is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			password, err := passwordFrom(cmd, f.password)
			if err != nil {
				return err
			}
			return a.session.Login(cmd.Context(), f.email, password)
		},
	}

	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newRegisterCmd() *cobra.Command {
	f := &credentialsFlags{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a voter account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			password, err := passwordFrom(cmd, f.password)
			if err != nil {
				return err
			}
			return a.session.Register(cmd.Context(), f.name, f.email, password)
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			appFrom(cmd).session.Logout(cmd.Context())
			return nil
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored token for a fresh one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.session.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token refreshed.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show who is signed in",
		Long: `Show the stored session. With --verify the server is asked who the
token belongs to, which also ends a session the server no longer accepts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := appFrom(cmd)
			if verify && a.session.IsAuthenticated() {
				if _, err := a.session.Verify(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatSession(a.session.Current()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "confirm the session with the server")

	return cmd
}

// passwordFrom returns flagValue or reads one line from standard input.
func passwordFrom(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("password is required")
	}
	return line, nil
}
