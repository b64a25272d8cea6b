package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
	"github.com/finanzaspro/finanzas/internal/ledger"
	"github.com/finanzaspro/finanzas/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "Manage transactions",
		Long: `Record and inspect money movements. Every write keeps account
balances and debt totals consistent with the transaction history.`,
	}

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		month string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, most recent first",
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
			currency := led.Settings().Currency

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("Date"),
				cli.TableHeaderStyle.Render("Description"),
				cli.TableHeaderStyle.Render("Type"),
				cli.TableHeaderStyle.Render("Account"),
				cli.TableHeaderStyle.Render("Amount"))

			shown := 0
			for _, txn := range led.Transactions() {
				if !period.Contains(txn.Date) {
					continue
				}
				if limit > 0 && shown >= limit {
					break
				}
				shown++

				amount := formatMoney(txn.Amount, currency)
				switch txn.Type {
				case model.TypeIncome:
					amount = cli.SuccessStyle.Render("+" + amount)
				case model.TypeExpense, model.TypeDebtPayment:
					amount = cli.ErrorStyle.Render("-" + amount)
				case model.TypeTransfer:
					amount = cli.InfoStyle.Render(amount)
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					txn.Description,
					txn.Type,
					accountLabel(led.Accounts(), txn),
					amount)
			}

			if shown == 0 {
				fmt.Fprintln(w, cli.SubtleStyle.Render("(no transactions)"))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict to a month (YYYY-MM)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rows to show (0 for all)")

	return cmd
}

// accountLabel renders the account column, including the target for
// transfers.
func accountLabel(accounts []model.Account, txn model.Transaction) string {
	name := func(id string) string {
		for _, acc := range accounts {
			if acc.ID == id {
				return acc.Name
			}
		}
		return id
	}

	if txn.Type == model.TypeTransfer && txn.TargetAccountID != "" {
		return name(txn.AccountID) + " → " + name(txn.TargetAccountID)
	}
	return name(txn.AccountID)
}

func addTransactionCmd() *cobra.Command {
	var (
		txnType  string
		amount   float64
		account  string
		target   string
		category string
		debt     string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Record a transaction",
		Long: `Record a money movement and apply its balance effects.

Types:
  income        money entering an account
  expense       money leaving an account
  transfer      between two accounts (requires --to)
  debt_payment  expense that also reduces a debt (requires --debt)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			input, err := buildTransactionInput(led, args[0], txnType, amount, account, target, category, debt, date)
			if err != nil {
				return err
			}

			txn, err := led.AddTransaction(ctx, input)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %q for %s",
				txn.Type, txn.Description, formatMoney(txn.Amount, led.Settings().Currency))))
			return nil
		},
	}

	addTransactionFlags(cmd, &txnType, &amount, &account, &target, &category, &debt, &date)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func updateTransactionCmd() *cobra.Command {
	var (
		txnType  string
		amount   float64
		account  string
		target   string
		category string
		debt     string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "update <id> <description>",
		Short: "Replace a transaction",
		Long: `Replace a transaction wholesale. The old balance effects are reversed
and the new ones applied in a single atomic step.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			input, err := buildTransactionInput(led, args[1], txnType, amount, account, target, category, debt, date)
			if err != nil {
				return err
			}

			txn, err := led.UpdateTransaction(ctx, args[0], input)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated transaction %q", txn.Description)))
			return nil
		},
	}

	addTransactionFlags(cmd, &txnType, &amount, &account, &target, &category, &debt, &date)
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction and reverse its effects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := led.DeleteTransaction(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Transaction deleted, balances restored"))
			return nil
		},
	}
}

func addTransactionFlags(cmd *cobra.Command, txnType *string, amount *float64, account, target, category, debt, date *string) {
	cmd.Flags().StringVarP(txnType, "type", "t", "expense", "transaction type (income, expense, transfer, debt_payment)")
	cmd.Flags().Float64VarP(amount, "amount", "a", 0, "amount (positive)")
	cmd.Flags().StringVar(account, "account", "", "source account (id or name)")
	cmd.Flags().StringVar(target, "to", "", "target account for transfers (id or name)")
	cmd.Flags().StringVarP(category, "category", "c", "", "category (id or name)")
	cmd.Flags().StringVar(debt, "debt", "", "debt reduced by a debt_payment (id or name)")
	cmd.Flags().StringVarP(date, "date", "d", "", "date (YYYY-MM-DD, today, yesterday)")
}

// buildTransactionInput resolves name-or-id flags against the loaded
// snapshot.
func buildTransactionInput(led *ledger.Ledger, description, txnType string, amount float64, account, target, category, debt, date string) (ledger.TransactionInput, error) {
	var input ledger.TransactionInput

	when, err := parseDate(date)
	if err != nil {
		return input, err
	}

	acc, err := findAccount(led.Accounts(), account)
	if err != nil {
		return input, err
	}

	input = ledger.TransactionInput{
		Date:        when,
		Description: description,
		AccountID:   acc.ID,
		Type:        model.TransactionType(txnType),
		Amount:      amount,
	}

	if category != "" {
		cat, catErr := findCategory(led.Categories(), category)
		if catErr != nil {
			return input, catErr
		}
		input.CategoryID = cat.ID
	}

	if target != "" {
		to, toErr := findAccount(led.Accounts(), target)
		if toErr != nil {
			return input, toErr
		}
		input.TargetAccountID = to.ID
	}

	if debt != "" {
		d, debtErr := findDebt(led.Debts(), debt)
		if debtErr != nil {
			return input, debtErr
		}
		input.DebtID = d.ID
	}

	return input, nil
}
