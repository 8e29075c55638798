package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/hos-planner/internal/domain"
)

func loginCmd(e *env) *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if creds.Password == "" {
				pw, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				creds.Password = pw
			}
			u, err := e.app.Sessions.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			if e.ephemeral() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: STORE_BACKEND is memory; the session ends with this process")
			}
			return e.printer.message(u, "Logged in as %s", u.Username)
		},
	}
	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "Password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func registerCmd(e *env) *cobra.Command {
	var reg domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a driver account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reg.Password == "" {
				pw, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				reg.Password = pw
			}
			u, err := e.app.Sessions.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			return e.printer.message(u, "Registered and logged in as %s", u.Username)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&reg.Username, "username", "u", "", "Username")
	f.StringVarP(&reg.Password, "password", "p", "", "Password (read from stdin when omitted)")
	f.StringVar(&reg.Email, "email", "", "Email address")
	f.StringVar(&reg.FirstName, "first-name", "", "First name")
	f.StringVar(&reg.LastName, "last-name", "", "Last name")
	f.StringVar(&reg.LicenseNumber, "license", "", "Driver license number")
	f.StringVar(&reg.CarrierName, "carrier-name", "", "Carrier name")
	f.StringVar(&reg.CarrierAddress, "carrier-address", "", "Carrier main office address")
	return cmd
}

func logoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.app.Sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			return e.printer.message(map[string]bool{"authenticated": false}, "Logged out")
		},
	}
}

func whoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, ok := e.app.Store.User()
			if !ok || !e.app.Store.IsAuthenticated() {
				return errNotLoggedIn
			}
			return e.printer.print(u, func(w io.Writer) error {
				fmt.Fprintf(w, "Username:\t%s\n", u.Username)
				fmt.Fprintf(w, "Name:\t%s %s\n", u.FirstName, u.LastName)
				fmt.Fprintf(w, "Email:\t%s\n", u.Email)
				_, err := fmt.Fprintf(w, "Admin:\t%t\n", u.IsAdmin)
				return err
			})
		},
	}
}

var errNotLoggedIn = errors.New("not logged in; run eldctl login")

// requireSession fails fast instead of sending an unauthenticated request.
func requireSession(e *env) func(*cobra.Command, []string) error {
	return func(*cobra.Command, []string) error {
		if !e.app.Store.IsAuthenticated() {
			return errNotLoggedIn
		}
		return nil
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
