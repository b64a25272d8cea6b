package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Initialize or update the data store",
		Long: `Bring the configured backend up to the latest schema and seed a fresh
profile with default accounts, categories, and settings.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			slog.Info("Running migrations")

			// initStorage migrates as part of opening.
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			defer func() { _ = store.Close() }()

			fmt.Println(cli.FormatSuccess("Data store is up to date"))
			return nil
		},
	}
}
