package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema of the configured store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger := commandEnv(cmd)
		store, err := openStore(cmd.Context(), cfg, logger, true)
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "schema ready (%s)\n", cfg.StoreBackend)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
