package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	urfave "github.com/urfave/cli/v3"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	keyringService = "interdisc"
	keyringUser    = "store_password"

	passwordEnvVar = "INTERDISC_STORE_PASSWORD"
)

var (
	authCmd = &urfave.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Store the citation store password in the OS keychain",
		Action:          cmdAuth,
	}
)

func cmdAuth(ctx context.Context, cmd *urfave.Command) error {
	pass := os.Getenv(passwordEnvVar)
	if pass == "" {
		fmt.Fprintf(cmd.Root().Writer, "Enter the %s store password: ", getConfig(cmd).Config.Store.Driver)
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.Root().Writer)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		pass = strings.TrimSpace(string(b))
	}
	if pass == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if err := keyring.Set(keyringService, keyringUser, pass); err != nil {
		return fmt.Errorf("saving password to keychain: %w", err)
	}

	fmt.Fprintln(cmd.Root().Writer, "Password saved to OS keychain")
	return nil
}
