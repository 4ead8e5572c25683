package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (c *cli) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session securely",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				var err error
				if email, err = c.prompt(cmd, "Email: "); err != nil {
					return err
				}
			}
			password, err := c.readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			if err := c.app.Session.Login(cmd.Context(), email, password); err != nil {
				return errors.New("login failed: invalid username or password")
			}
			u := c.app.Session.UserInfo()
			c.printf(cmd, "Welcome, %s! %d emergency contact(s) loaded.\n", u.Name, len(c.app.Session.Contacts()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			c.printf(cmd, "Logged out.\n")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := c.app.Session.UserInfo()
			if u == nil {
				c.printf(cmd, "Not logged in.\n")
				return nil
			}
			c.printf(cmd, "%s <%s>  phone %s  authorized %t\n", u.Name, u.Email, u.Phone, u.IsAuthorized())
			return nil
		},
	}
}

func (c *cli) prompt(cmd *cobra.Command, label string) (string, error) {
	if c.in == nil {
		c.in = bufio.NewReader(cmd.InOrStdin())
	}
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo when stdin is a terminal.
func (c *cli) readPassword(cmd *cobra.Command, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return c.prompt(cmd, label)
	}
	fmt.Fprint(cmd.OutOrStdout(), label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
