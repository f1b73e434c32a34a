// Command archivectl runs administrative tasks against the document archive.
package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"docarchive/internal/bootstrap"
	"docarchive/internal/config"
	"docarchive/internal/logging"
)

var openStore = bootstrap.OpenStore

var rootCmd = &cobra.Command{
	Use:           "archivectl",
	Short:         "Administrative tasks for the document archive",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// commandEnv loads configuration and builds a logger writing to the command's stderr.
func commandEnv(cmd *cobra.Command) (*config.AppConfig, *slog.Logger) {
	cfg := config.Load()
	return cfg, logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.Location())
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
