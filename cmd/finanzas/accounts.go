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

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
		Long:  `List, add, update, and delete the accounts money moves through.`,
	}

	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(addAccountCmd())
	cmd.AddCommand(updateAccountCmd())
	cmd.AddCommand(deleteAccountCmd())

	return cmd
}

func listAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts := led.Accounts()
			currency := led.Settings().Currency

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Type"),
				cli.TableHeaderStyle.Render("Balance"))

			for _, acc := range accounts {
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n",
					acc.ID, acc.Icon, acc.Name, acc.Type,
					formatMoney(acc.Balance, currency))
			}

			fmt.Fprintf(w, "\t\t%s\t%s\n",
				cli.BoldStyle.Render("Total"),
				cli.BoldStyle.Render(formatMoney(led.NetWorth(), currency)))

			return nil
		},
	}
}

func addAccountCmd() *cobra.Command {
	var (
		accountType string
		color       string
		icon        string
		balance     float64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			acc, err := led.AddAccount(ctx, ledgerAccountInput(args[0], accountType, color, icon, balance))
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created account %q (%s)", acc.Name, acc.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&accountType, "type", "bank", "account type (bank, cash, card)")
	cmd.Flags().StringVar(&color, "color", "#6366f1", "display color")
	cmd.Flags().StringVar(&icon, "icon", "🏦", "display icon")
	cmd.Flags().Float64Var(&balance, "balance", 0, "opening balance")

	return cmd
}

func updateAccountCmd() *cobra.Command {
	var (
		name        string
		accountType string
		color       string
		icon        string
		balance     float64
	)

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Update an account",
		Long: `Update account fields. Only the provided flags change.

--balance is an explicit correction: it sets the balance directly instead
of recording a transaction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			acc, err := findAccount(led.Accounts(), args[0])
			if err != nil {
				return err
			}

			update := accountUpdateFromFlags(cmd, name, accountType, color, icon, balance)
			updated, err := led.UpdateAccount(ctx, acc.ID, update)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated account %q", updated.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&accountType, "type", "", "new type (bank, cash, card)")
	cmd.Flags().StringVar(&color, "color", "", "new display color")
	cmd.Flags().StringVar(&icon, "icon", "", "new display icon")
	cmd.Flags().Float64Var(&balance, "balance", 0, "balance correction")

	return cmd
}

func deleteAccountCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete an account",
		Long:  `Delete an account. Its recorded transactions are kept as history.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			acc, err := findAccount(led.Accounts(), args[0])
			if err != nil {
				return err
			}

			if !skipConfirm {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				ok, promptErr := prompter.Confirm(ctx,
					fmt.Sprintf("Delete account %q (balance %.2f)?", acc.Name, acc.Balance), false)
				if promptErr != nil {
					return promptErr
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Aborted"))
					return nil
				}
			}

			if err := led.DeleteAccount(ctx, acc.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted account %q", acc.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip confirmation")

	return cmd
}

// ledgerAccountInput maps command flags onto an account input.
func ledgerAccountInput(name, accountType, color, icon string, balance float64) ledger.AccountInput {
	return ledger.AccountInput{
		Name:    name,
		Type:    model.AccountType(strings.ToLower(accountType)),
		Color:   color,
		Icon:    icon,
		Balance: balance,
	}
}

// accountUpdateFromFlags builds a partial update from the flags that were
// actually set.
func accountUpdateFromFlags(cmd *cobra.Command, name, accountType, color, icon string, balance float64) ledger.AccountUpdate {
	var update ledger.AccountUpdate
	if cmd.Flags().Changed("name") {
		update.Name = &name
	}
	if cmd.Flags().Changed("type") {
		t := model.AccountType(strings.ToLower(accountType))
		update.Type = &t
	}
	if cmd.Flags().Changed("color") {
		update.Color = &color
	}
	if cmd.Flags().Changed("icon") {
		update.Icon = &icon
	}
	if cmd.Flags().Changed("balance") {
		update.Balance = &balance
	}
	return update
}
