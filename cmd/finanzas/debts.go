package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
	"github.com/finanzaspro/finanzas/internal/ledger"
	"github.com/finanzaspro/finanzas/internal/model"
)

func debtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Manage debts",
		Long: `Track liabilities and pay them down. A debt's remaining balance moves
only through debt_payment transactions, so history and balances agree.`,
	}

	cmd.AddCommand(listDebtsCmd())
	cmd.AddCommand(addDebtCmd())
	cmd.AddCommand(updateDebtCmd())
	cmd.AddCommand(deleteDebtCmd())
	cmd.AddCommand(payDebtCmd())

	return cmd
}

func listDebtsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all debts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			currency := led.Settings().Currency

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Type"),
				cli.TableHeaderStyle.Render("Remaining"),
				cli.TableHeaderStyle.Render("Total"),
				cli.TableHeaderStyle.Render("Progress"))

			for _, d := range led.Debts() {
				progress := 0.0
				if d.TotalAmount > 0 {
					progress = (d.TotalAmount - d.RemainingAmount) / d.TotalAmount
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%.0f%%\n",
					d.ID, d.Icon, d.Name, d.Type,
					formatMoney(d.RemainingAmount, currency),
					formatMoney(d.TotalAmount, currency),
					progress*100)
			}

			fmt.Fprintf(w, "\t\t%s\t%s\t\t\n",
				cli.BoldStyle.Render("Outstanding"),
				cli.BoldStyle.Render(formatMoney(led.TotalOutstandingDebt(), currency)))

			return nil
		},
	}
}

func addDebtCmd() *cobra.Command {
	var (
		debtType  string
		icon      string
		color     string
		total     float64
		remaining float64
		interest  float64
		dueDate   string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new debt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			input := ledger.DebtInput{
				Name:         args[0],
				Type:         model.DebtType(strings.ToLower(debtType)),
				Icon:         icon,
				Color:        color,
				TotalAmount:  total,
				InterestRate: interest,
			}
			if cmd.Flags().Changed("remaining") {
				input.RemainingAmount = remaining
			} else {
				input.RemainingAmount = total
			}
			if dueDate != "" {
				due, dateErr := parseDate(dueDate)
				if dateErr != nil {
					return dateErr
				}
				input.DueDate = &due
			}

			d, err := led.AddDebt(ctx, input)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Registered debt %q (%s remaining)",
				d.Name, formatMoney(d.RemainingAmount, led.Settings().Currency))))
			return nil
		},
	}

	cmd.Flags().StringVar(&debtType, "type", "other", "debt type (credit_card, loan, mortgage, vehicle, other)")
	cmd.Flags().StringVar(&icon, "icon", "📉", "display icon")
	cmd.Flags().StringVar(&color, "color", "#6366f1", "display color")
	cmd.Flags().Float64Var(&total, "total", 0, "total amount owed")
	cmd.Flags().Float64Var(&remaining, "remaining", 0, "remaining amount (default: total)")
	cmd.Flags().Float64Var(&interest, "interest", 0, "annual interest rate (percent)")
	cmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("total")

	return cmd
}

func updateDebtCmd() *cobra.Command {
	var (
		name     string
		debtType string
		icon     string
		color    string
		total    float64
		interest float64
		dueDate  string
	)

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Update a debt",
		Long: `Update debt fields. Shrinking the total clamps the remaining balance
to the new total. The remaining amount itself only moves through payments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			d, err := findDebt(led.Debts(), args[0])
			if err != nil {
				return err
			}

			var update ledger.DebtUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("type") {
				t := model.DebtType(strings.ToLower(debtType))
				update.Type = &t
			}
			if cmd.Flags().Changed("icon") {
				update.Icon = &icon
			}
			if cmd.Flags().Changed("color") {
				update.Color = &color
			}
			if cmd.Flags().Changed("total") {
				update.TotalAmount = &total
			}
			if cmd.Flags().Changed("interest") {
				update.InterestRate = &interest
			}
			if cmd.Flags().Changed("due") {
				due, dateErr := parseDate(dueDate)
				if dateErr != nil {
					return dateErr
				}
				update.DueDate = &due
			}

			updated, err := led.UpdateDebt(ctx, d.ID, update)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated debt %q", updated.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&debtType, "type", "", "new type")
	cmd.Flags().StringVar(&icon, "icon", "", "new display icon")
	cmd.Flags().StringVar(&color, "color", "", "new display color")
	cmd.Flags().Float64Var(&total, "total", 0, "new total amount")
	cmd.Flags().Float64Var(&interest, "interest", 0, "new interest rate")
	cmd.Flags().StringVar(&dueDate, "due", "", "new due date (YYYY-MM-DD)")

	return cmd
}

func deleteDebtCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a debt",
		Long:  `Delete a debt. Past payments stay in the transaction history.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			d, err := findDebt(led.Debts(), args[0])
			if err != nil {
				return err
			}

			if !skipConfirm {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				ok, promptErr := prompter.Confirm(ctx,
					fmt.Sprintf("Delete debt %q (%.2f remaining)?", d.Name, d.RemainingAmount), false)
				if promptErr != nil {
					return promptErr
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Aborted"))
					return nil
				}
			}

			if err := led.DeleteDebt(ctx, d.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted debt %q", d.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip confirmation")

	return cmd
}

func payDebtCmd() *cobra.Command {
	var (
		amount  float64
		account string
		date    string
	)

	cmd := &cobra.Command{
		Use:   "pay <id|name>",
		Short: "Record a debt payment",
		Long: `Record a debt payment: debits the paying account and reduces the
debt's remaining balance, atomically. The remaining balance never goes
below zero even if the payment overshoots.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			d, err := findDebt(led.Debts(), args[0])
			if err != nil {
				return err
			}
			acc, err := findAccount(led.Accounts(), account)
			if err != nil {
				return err
			}
			when, err := parseDate(date)
			if err != nil {
				return err
			}

			input := ledger.TransactionInput{
				Date:        when,
				Description: "Pago: " + d.Name,
				AccountID:   acc.ID,
				DebtID:      d.ID,
				Type:        model.TypeDebtPayment,
				Amount:      amount,
			}
			if cat := categoryByName(led.Categories(), model.DebtCategoryName); cat != nil {
				input.CategoryID = cat.ID
			}

			txn, err := led.AddTransaction(ctx, input)
			if err != nil {
				return err
			}

			paid, _ := findDebt(led.Debts(), d.ID)
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Paid %s toward %q, %s remaining",
				formatMoney(txn.Amount, led.Settings().Currency), d.Name,
				formatMoney(paid.RemainingAmount, led.Settings().Currency))))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "payment amount")
	cmd.Flags().StringVar(&account, "account", "", "paying account (id or name)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "payment date (default today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

// categoryByName finds a category by exact name.
func categoryByName(categories []model.Category, name string) *model.Category {
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i]
		}
	}
	return nil
}
