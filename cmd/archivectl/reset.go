package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"docarchive/internal/service"
)

var resetConfirmed bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every activity entry, document and category",
	Long: `Delete every activity entry, document and category.
Stored files are left in object storage.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetConfirmed {
			return errors.New("refusing to reset without --yes")
		}
		cfg, logger := commandEnv(cmd)
		store, err := openStore(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := service.NewSystemService(store, logger).Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Archive data reset successfully")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "confirm the reset")
	rootCmd.AddCommand(resetCmd)
}
