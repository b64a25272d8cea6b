package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage profile settings",
	}

	cmd.AddCommand(showSettingsCmd())
	cmd.AddCommand(setSettingsCmd())

	return cmd
}

func showSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings := led.Settings()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "User name\t%s\n", settings.UserName)
			fmt.Fprintf(w, "Currency\t%s\n", settings.Currency)
			fmt.Fprintf(w, "Primary color\t%s\n", settings.PrimaryColor)
			fmt.Fprintf(w, "Secondary color\t%s\n", settings.SecondaryColor)
			fmt.Fprintf(w, "Accent color\t%s\n", settings.AccentColor)

			key := cli.SubtleStyle.Render("(not set)")
			if settings.AIAPIKey != "" {
				key = cli.SuccessStyle.Render("(configured)")
			}
			fmt.Fprintf(w, "AI API key\t%s\n", key)

			return nil
		},
	}
}

func setSettingsCmd() *cobra.Command {
	var (
		userName       string
		currency       string
		primaryColor   string
		secondaryColor string
		accentColor    string
		aiAPIKey       string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			settings := led.Settings()
			if cmd.Flags().Changed("name") {
				settings.UserName = userName
			}
			if cmd.Flags().Changed("currency") {
				settings.Currency = currency
			}
			if cmd.Flags().Changed("primary-color") {
				settings.PrimaryColor = primaryColor
			}
			if cmd.Flags().Changed("secondary-color") {
				settings.SecondaryColor = secondaryColor
			}
			if cmd.Flags().Changed("accent-color") {
				settings.AccentColor = accentColor
			}
			if cmd.Flags().Changed("ai-api-key") {
				settings.AIAPIKey = aiAPIKey
			}

			if err := led.UpdateSettings(ctx, settings); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Settings saved"))
			return nil
		},
	}

	cmd.Flags().StringVar(&userName, "name", "", "display name")
	cmd.Flags().StringVar(&currency, "currency", "", "currency symbol")
	cmd.Flags().StringVar(&primaryColor, "primary-color", "", "primary theme color")
	cmd.Flags().StringVar(&secondaryColor, "secondary-color", "", "secondary theme color")
	cmd.Flags().StringVar(&accentColor, "accent-color", "", "accent theme color")
	cmd.Flags().StringVar(&aiAPIKey, "ai-api-key", "", "API key for the AI advisor")

	return cmd
}
