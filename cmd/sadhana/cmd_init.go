package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/sadhana/internal/model"
)

var (
	initBackend string
	initForce   bool
)

// initCmd writes a config file with the defaults filled in.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Example: `
sadhana init
sadhana init --backend postgres
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		out := *cfg
		if initBackend != "" {
			out.Store.Backend = initBackend
		}
		switch out.Store.Backend {
		case model.BackendSQLite, model.BackendPostgres, model.BackendREST, model.BackendFile:
		default:
			return fmt.Errorf("unknown store backend %q", out.Store.Backend)
		}

		if err := model.SaveConfig(configPath, &out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (backend %s)\n", configPath, out.Store.Backend)
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", "", "Store backend: sqlite, postgres, rest or file")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config")
}
