package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
	"github.com/finanzaspro/finanzas/internal/ledger"
	"github.com/finanzaspro/finanzas/internal/llm"
	"github.com/finanzaspro/finanzas/internal/model"
)

func parseCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Record a transaction from natural language",
		Long: `Describe a money movement in plain words and let the AI turn it into a
transaction draft. The draft is shown for confirmation before anything
is recorded.

Examples:
  finanzas parse "gasté 25 euros en el supermercado con la tarjeta"
  finanzas parse "me pagaron la nómina, 1800 al banco principal"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			text := strings.Join(args, " ")

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

			draft, err := advisor.ParseTransaction(ctx, text, led.Snapshot())
			if err != nil {
				return err
			}

			input, err := draftToInput(led, draft)
			if err != nil {
				return err
			}

			currency := led.Settings().Currency
			preview := fmt.Sprintf("%s\n%s  %s  %s",
				input.Description,
				input.Date.Format("2006-01-02"),
				input.Type,
				formatMoney(input.Amount, currency))
			fmt.Println(cli.RenderBox(cli.RobotIcon+" Draft", preview))

			if !skipConfirm {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				ok, promptErr := prompter.Confirm(ctx, "Record this transaction?", true)
				if promptErr != nil {
					return promptErr
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Discarded"))
					return nil
				}
			}

			txn, err := led.AddTransaction(ctx, input)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %s %q for %s",
				txn.Type, txn.Description, formatMoney(txn.Amount, currency))))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "record without confirmation")

	return cmd
}

// draftToInput resolves the names in an AI draft against the loaded
// snapshot. The model is asked to answer with known account and category
// names, but it is not trusted to.
func draftToInput(led *ledger.Ledger, draft llm.DraftTransaction) (ledger.TransactionInput, error) {
	var input ledger.TransactionInput

	acc, err := findAccount(led.Accounts(), draft.AccountName)
	if err != nil {
		return input, fmt.Errorf("AI chose an unknown account: %w", err)
	}

	date, err := parseDate(draft.Date)
	if err != nil {
		return input, fmt.Errorf("AI produced an unusable date: %w", err)
	}

	input = ledger.TransactionInput{
		Date:        date,
		Description: draft.Description,
		AccountID:   acc.ID,
		Type:        model.TransactionType(draft.Type),
		Amount:      draft.Amount,
	}

	if draft.CategoryName != "" {
		cat, catErr := findCategory(led.Categories(), draft.CategoryName)
		if catErr != nil {
			return input, fmt.Errorf("AI chose an unknown category: %w", catErr)
		}
		input.CategoryID = cat.ID
	}

	if draft.TargetAccountName != "" {
		target, targetErr := findAccount(led.Accounts(), draft.TargetAccountName)
		if targetErr != nil {
			return input, fmt.Errorf("AI chose an unknown target account: %w", targetErr)
		}
		input.TargetAccountID = target.ID
	}

	return input, nil
}
