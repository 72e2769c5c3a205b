package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marcus/partman/internal/config"
	"github.com/marcus/partman/internal/output"
	"github.com/marcus/partman/internal/partsclient"
	"github.com/marcus/partman/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Short:   "Create an account, log in and out",
	GroupID: "account",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <email> [password]",
	Short: "Create an account and log in",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentials(args)
		if err != nil {
			return err
		}
		return withClient(cmd, func(c *partsclient.Client) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := c.CreateUser(ctx, email, password); err != nil {
				return err
			}
			if err := c.Login(ctx, email, password); err != nil {
				return err
			}
			output.Success("Created account %s", email)
			return nil
		})
	},
}

var userLoginCmd = &cobra.Command{
	Use:   "login <email> [password]",
	Short: "Log in; the session is kept for later commands",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, password, err := credentials(args)
		if err != nil {
			return err
		}
		return withClient(cmd, func(c *partsclient.Client) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()
			if err := c.Login(ctx, email, password); err != nil {
				return err
			}
			output.Success("Logged in as %s", email)
			return nil
		})
	},
}

var userLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jar, err := session.Open(config.SessionPath(configDir))
		if err != nil {
			return err
		}
		defer jar.Close()
		if err := jar.Clear(); err != nil {
			return err
		}
		output.Success("Logged out")
		return nil
	},
}

// credentials takes the email from args and the password from args or,
// failing that, from the terminal or stdin.
func credentials(args []string) (email, password string, err error) {
	email = strings.TrimSpace(args[0])
	if !strings.Contains(email, "@") {
		return "", "", fmt.Errorf("invalid email %q", email)
	}
	if len(args) == 2 {
		return email, args[1], nil
	}
	password, err = readPassword(os.Stdin, os.Stderr)
	if err != nil {
		return "", "", err
	}
	if password == "" {
		return "", "", fmt.Errorf("password required")
	}
	return email, password, nil
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise.
func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userLoginCmd)
	userCmd.AddCommand(userLogoutCmd)
}
