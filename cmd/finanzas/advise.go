package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
)

func adviseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advise",
		Short: "Get AI financial advice",
		Long: `Send the current financial picture to the configured AI provider and
print its analysis. When the provider is unreachable a fallback message
is shown instead of an error.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			advisor, err := initAdvisor(led.Settings())
			if err != nil {
				return err
			}
			defer advisor.Close()

			fmt.Println(cli.FormatInfo("Consulting the advisor..."))

			analysis := advisor.Analyze(ctx, led.Snapshot())
			fmt.Println(cli.RenderBox(cli.RobotIcon+" Análisis", analysis))
			return nil
		},
	}
}
