package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
	"github.com/finanzaspro/finanzas/internal/ledger"
	"github.com/finanzaspro/finanzas/internal/model"
)

func obligationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "obligations",
		Aliases: []string{"bills"},
		Short:   "Manage scheduled payments",
		Long: `Track upcoming payment commitments. Paying an obligation records the
expense; recurring obligations immediately schedule the next month's
instance.`,
	}

	cmd.AddCommand(listObligationsCmd())
	cmd.AddCommand(addObligationCmd())
	cmd.AddCommand(updateObligationCmd())
	cmd.AddCommand(deleteObligationCmd())
	cmd.AddCommand(payObligationCmd())

	return cmd
}

func listObligationsCmd() *cobra.Command {
	var (
		overdueOnly  bool
		upcomingOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled payments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			now := time.Now()
			var obligations []model.Obligation
			switch {
			case overdueOnly:
				obligations = led.Overdue(now)
			case upcomingOnly:
				obligations = led.Upcoming(now)
			default:
				obligations = led.Obligations()
			}

			currency := led.Settings().Currency

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Description"),
				cli.TableHeaderStyle.Render("Due"),
				cli.TableHeaderStyle.Render("Amount"),
				cli.TableHeaderStyle.Render("Status"))

			for _, ob := range obligations {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					ob.ID, obligationLabel(ob),
					ob.DueDate.Format("2006-01-02"),
					formatMoney(ob.Amount, currency),
					obligationStatus(ob, now))
			}

			if len(obligations) == 0 {
				fmt.Fprintln(w, cli.SubtleStyle.Render("(no scheduled payments)"))
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&overdueOnly, "overdue", false, "only unpaid obligations past their due date")
	cmd.Flags().BoolVar(&upcomingOnly, "upcoming", false, "only unpaid obligations due within 3 days")

	return cmd
}

func obligationLabel(ob model.Obligation) string {
	if ob.IsRecurring {
		return ob.Description + " " + cli.SubtleStyle.Render("(monthly)")
	}
	return ob.Description
}

func obligationStatus(ob model.Obligation, now time.Time) string {
	switch ledger.ClassifyDue(ob, now, 3) {
	case ledger.DueStatusPaid:
		return cli.SuccessStyle.Render("paid")
	case ledger.DueStatusOverdue:
		return cli.ErrorStyle.Render("overdue")
	case ledger.DueStatusDueToday:
		return cli.WarningStyle.Render("due today")
	case ledger.DueStatusUpcoming:
		return cli.WarningStyle.Render("due soon")
	default:
		return cli.SubtleStyle.Render("scheduled")
	}
}

func addObligationCmd() *cobra.Command {
	var (
		amount    float64
		account   string
		category  string
		due       string
		recurring bool
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Schedule a payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			acc, err := findAccount(led.Accounts(), account)
			if err != nil {
				return err
			}
			cat, err := findCategory(led.Categories(), category)
			if err != nil {
				return err
			}
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}

			ob, err := led.AddObligation(ctx, ledger.ObligationInput{
				DueDate:     dueDate,
				Description: args[0],
				CategoryID:  cat.ID,
				AccountID:   acc.ID,
				Amount:      amount,
				IsRecurring: recurring,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Scheduled %q for %s",
				ob.Description, ob.DueDate.Format("2006-01-02"))))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "amount due")
	cmd.Flags().StringVar(&account, "account", "", "account that will pay (id or name)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (id or name)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "due date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&recurring, "recurring", "r", false, "repeats monthly")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

func updateObligationCmd() *cobra.Command {
	var (
		description string
		amount      float64
		account     string
		category    string
		due         string
		recurring   bool
	)

	cmd := &cobra.Command{
		Use:   "update <id|description>",
		Short: "Update a scheduled payment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ob, err := findObligation(led.Obligations(), args[0])
			if err != nil {
				return err
			}

			var update ledger.ObligationUpdate
			if cmd.Flags().Changed("description") {
				update.Description = &description
			}
			if cmd.Flags().Changed("amount") {
				update.Amount = &amount
			}
			if cmd.Flags().Changed("account") {
				acc, accErr := findAccount(led.Accounts(), account)
				if accErr != nil {
					return accErr
				}
				update.AccountID = &acc.ID
			}
			if cmd.Flags().Changed("category") {
				cat, catErr := findCategory(led.Categories(), category)
				if catErr != nil {
					return catErr
				}
				update.CategoryID = &cat.ID
			}
			if cmd.Flags().Changed("due") {
				dueDate, dateErr := parseDate(due)
				if dateErr != nil {
					return dateErr
				}
				update.DueDate = &dueDate
			}
			if cmd.Flags().Changed("recurring") {
				update.IsRecurring = &recurring
			}

			updated, err := led.UpdateObligation(ctx, ob.ID, update)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated %q", updated.Description)))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().Float64VarP(&amount, "amount", "a", 0, "new amount")
	cmd.Flags().StringVar(&account, "account", "", "new paying account (id or name)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category (id or name)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().BoolVarP(&recurring, "recurring", "r", false, "repeats monthly")

	return cmd
}

func deleteObligationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|description>",
		Short: "Delete a scheduled payment",
		Long:  `Delete an obligation. If it was already paid, its settlement transaction stays.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ob, err := findObligation(led.Obligations(), args[0])
			if err != nil {
				return err
			}

			if err := led.DeleteObligation(ctx, ob.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted %q", ob.Description)))
			return nil
		},
	}
}

func payObligationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id|description>",
		Short: "Pay a scheduled payment",
		Long: `Mark an obligation paid: records the expense against its account and,
for recurring obligations, schedules next month's instance. Paying an
already-paid obligation is a no-op.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ob, err := findObligation(led.Obligations(), args[0])
			if err != nil {
				return err
			}

			result, err := led.MarkObligationPaid(ctx, ob.ID, time.Now())
			if err != nil {
				return err
			}
			if result == nil {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("%q is already paid", ob.Description)))
				return nil
			}

			currency := led.Settings().Currency
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Paid %q (%s)",
				ob.Description, formatMoney(ob.Amount, currency))))
			if result.Successor != nil {
				fmt.Println(cli.FormatInfo(fmt.Sprintf("Next instance scheduled for %s",
					result.Successor.DueDate.Format("2006-01-02"))))
			}
			return nil
		},
	}
}
