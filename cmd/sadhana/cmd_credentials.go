package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nhle/sadhana/internal/credential"
)

var credentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Manage store secrets in the system keyring",
	Long: fmt.Sprintf(`Secrets for remote stores live in the system keyring, or in the
environment variable named after them.

Known names:
  %s  (env %s)
  %s  (env %s)`,
		credential.PostgresPassword, credential.EnvName(credential.PostgresPassword),
		credential.RESTAPIKey, credential.EnvName(credential.RESTAPIKey)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var credentialsSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Store a secret; the value is read from stdin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if isatty.IsTerminal(os.Stdin.Fd()) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ", args[0])
		}
		value, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && value == "" {
			return fmt.Errorf("reading value: %w", err)
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return fmt.Errorf("empty value for %s", args[0])
		}
		if err := credential.Set(args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "stored %s\n", args[0])
		return nil
	},
}

var credentialsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a secret from the keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credential.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	credentialsCmd.AddCommand(credentialsSetCmd)
	credentialsCmd.AddCommand(credentialsDeleteCmd)
}

// contextWithTimeout bounds a one-shot command by the store timeout.
func contextWithTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, cfg.Store.Timeout())
}
