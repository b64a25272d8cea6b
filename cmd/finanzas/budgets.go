package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
	"github.com/finanzaspro/finanzas/internal/model"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Manage category budgets",
		Long: `Cap monthly spending per category. A budget compares the month's
expenses in a category against its limit.`,
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(budgetStatusCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <category> <limit>",
		Short: "Set or overwrite a category's monthly limit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := findCategory(led.Categories(), args[0])
			if err != nil {
				return err
			}

			limit, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid limit %q: %w", args[1], err)
			}

			if _, err := led.SetBudget(ctx, cat.ID, limit); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Budget for %q set to %s/month",
				cat.Name, formatMoney(limit, led.Settings().Currency))))
			return nil
		},
	}
}

func budgetStatusCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show budget progress for a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			period, err := parsePeriod(month)
			if err != nil {
				return err
			}
			if period == model.AllTime {
				now := time.Now()
				period = model.Period{Year: now.Year(), Month: now.Month()}
			}

			statuses := led.BudgetStatuses(period)
			if len(statuses) == 0 {
				fmt.Println(cli.FormatInfo("No budgets set. Use 'finanzas budgets set' to create one."))
				return nil
			}

			currency := led.Settings().Currency

			fmt.Println(cli.FormatTitle("Budgets " + period.String()))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			for _, status := range statuses {
				name := status.CategoryID
				if cat, catErr := findCategory(led.Categories(), status.CategoryID); catErr == nil {
					name = cat.Icon + " " + cat.Name
				}

				bar := renderProgressBar(status.Progress, 20)
				line := fmt.Sprintf("%s / %s",
					formatMoney(status.Spent, currency),
					formatMoney(status.Limit, currency))
				if status.IsOver {
					line = cli.ErrorStyle.Render(line + "  over budget")
				}

				fmt.Fprintf(w, "%s\t%s\t%s\n", name, bar, line)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to evaluate (YYYY-MM, default current)")

	return cmd
}

// renderProgressBar draws a fixed-width unicode progress bar.
func renderProgressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	filled := int(progress * float64(width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := cli.SuccessStyle
	switch {
	case progress >= 1:
		style = cli.ErrorStyle
	case progress >= 0.8:
		style = cli.WarningStyle
	}
	return style.Render(bar)
}
