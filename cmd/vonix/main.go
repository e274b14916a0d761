package main

import (
	"os"

	"github.com/spf13/cobra"

	"vonix/internal/interfaces/cli/migrate"
	"vonix/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vonix",
		Short: "Vonix Network payment engine",
		Long:  `Vonix Network's donation and rank subscription engine: provider webhooks, the rank catalog, and expiry maintenance.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
