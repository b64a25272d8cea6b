package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
	"github.com/finanzaspro/finanzas/internal/ledger"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, update, and delete the categories used to label transactions, budgets, and scheduled payments.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
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

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("ID"),
				cli.TableHeaderStyle.Render("Name"),
				cli.TableHeaderStyle.Render("Spent "+period.String()))

			for _, cat := range led.Categories() {
				fmt.Fprintf(w, "%s\t%s %s\t%s\n",
					cat.ID, cat.Icon, cat.Name,
					formatMoney(led.SpentForCategory(cat.ID, period), currency))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month to total spending for (YYYY-MM, default all time)")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		color string
		icon  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			led, store, err := initLedger(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cat, err := led.AddCategory(ctx, ledger.CategoryInput{
				Name:  args[0],
				Color: color,
				Icon:  icon,
			})
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (%s)", cat.Name, cat.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&color, "color", "#64748b", "display color")
	cmd.Flags().StringVar(&icon, "icon", "🏷️", "display icon")

	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		name  string
		color string
		icon  string
	)

	cmd := &cobra.Command{
		Use:   "update <id|name>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
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

			var update ledger.CategoryUpdate
			if cmd.Flags().Changed("name") {
				update.Name = &name
			}
			if cmd.Flags().Changed("color") {
				update.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				update.Icon = &icon
			}

			updated, err := led.UpdateCategory(ctx, cat.ID, update)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated category %q", updated.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&color, "color", "", "new display color")
	cmd.Flags().StringVar(&icon, "icon", "", "new display icon")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var skipConfirm bool

	cmd := &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a category",
		Long:  `Delete a category. Recorded transactions keep their label.`,
		Args:  cobra.ExactArgs(1),
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

			if !skipConfirm {
				prompter := cli.NewPrompter(os.Stdin, os.Stdout)
				ok, promptErr := prompter.Confirm(ctx,
					fmt.Sprintf("Delete category %q?", cat.Name), false)
				if promptErr != nil {
					return promptErr
				}
				if !ok {
					fmt.Println(cli.FormatInfo("Aborted"))
					return nil
				}
			}

			if err := led.DeleteCategory(ctx, cat.ID); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %q", cat.Name)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "skip confirmation")

	return cmd
}
