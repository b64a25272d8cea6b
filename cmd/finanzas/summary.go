package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
	"github.com/finanzaspro/finanzas/internal/model"
)

func summaryCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the financial dashboard",
		Long: `Show net worth, income and expenses, outstanding debt, and the
payments coming due.`,
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

			settings := led.Settings()
			currency := settings.Currency

			fmt.Println(cli.FormatTitle("Hola, " + settings.UserName))

			var lines []string
			lines = append(lines,
				fmt.Sprintf("Net worth:        %s", cli.BoldStyle.Render(formatMoney(led.NetWorth(), currency))),
				fmt.Sprintf("Outstanding debt: %s", cli.ErrorStyle.Render(formatMoney(led.TotalOutstandingDebt(), currency))))

			if period == model.AllTime {
				lines = append(lines,
					fmt.Sprintf("Total income:     %s", cli.SuccessStyle.Render(formatMoney(led.TotalIncome(), currency))),
					fmt.Sprintf("Total expenses:   %s", cli.ErrorStyle.Render(formatMoney(led.TotalExpense(), currency))))
			} else {
				lines = append(lines,
					fmt.Sprintf("Income %s:   %s", period.String(), cli.SuccessStyle.Render(formatMoney(led.IncomeForPeriod(period), currency))),
					fmt.Sprintf("Expenses %s: %s", period.String(), cli.ErrorStyle.Render(formatMoney(led.ExpenseForPeriod(period), currency))))
			}

			fmt.Println(cli.RenderBox("Balance", strings.Join(lines, "\n")))

			now := time.Now()
			if overdue := led.Overdue(now); len(overdue) > 0 {
				var rows []string
				for _, ob := range overdue {
					rows = append(rows, fmt.Sprintf("%s  %s (%s)",
						ob.DueDate.Format("2006-01-02"), ob.Description,
						formatMoney(ob.Amount, currency)))
				}
				fmt.Println(cli.RenderBox(cli.ErrorStyle.Render("Overdue"), strings.Join(rows, "\n")))
			}

			if upcoming := led.DueSoon(now); len(upcoming) > 0 {
				var rows []string
				for _, ob := range upcoming {
					rows = append(rows, fmt.Sprintf("%s  %s (%s)",
						ob.DueDate.Format("2006-01-02"), ob.Description,
						formatMoney(ob.Amount, currency)))
				}
				fmt.Println(cli.RenderBox("Due soon", strings.Join(rows, "\n")))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict income/expense totals to a month (YYYY-MM)")

	return cmd
}
