package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/finanzaspro/finanzas/internal/cli"
	"github.com/finanzaspro/finanzas/internal/ledger"
	"github.com/finanzaspro/finanzas/internal/model"
	"github.com/finanzaspro/finanzas/internal/ofx"
)

func init() {
	importOFXCmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import money movements from OFX or QFX (Quicken) files exported from
your bank. Credits become income, debits become expenses, and every
imported transaction applies its balance effect to the target account.

Examples:
  # Import single file
  finanzas import-ofx --account "Banco Principal" ~/Downloads/enero.ofx

  # Import everything from a directory
  finanzas import-ofx --account a2 ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	importOFXCmd.Flags().String("account", "", "account to import into (id or name)")
	importOFXCmd.Flags().String("category", "Otros", "category for imported entries (id or name)")
	importOFXCmd.Flags().BoolP("dry-run", "d", false, "preview import without saving")
	_ = importOFXCmd.MarkFlagRequired("account")

	rootCmd.AddCommand(importOFXCmd)
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	accountFlag, _ := cmd.Flags().GetString("account")
	categoryFlag, _ := cmd.Flags().GetString("category")

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	ctx := cmd.Context()

	led, store, err := initLedger(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	account, err := findAccount(led.Accounts(), accountFlag)
	if err != nil {
		return err
	}
	category, err := findCategory(led.Categories(), categoryFlag)
	if err != nil {
		return err
	}

	slog.Info("Importing OFX files",
		"file_count", len(allFiles),
		"account", account.Name,
		"dry_run", dryRun)

	// Parse all files first, deduplicating on the bank's transaction id.
	var entries []ofx.Entry
	seen := make(map[string]bool)
	parser := ofx.NewParser()

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		parsed, err := parser.ParseFile(ctx, f)
		_ = f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", filePath, "error", err)
			continue
		}

		added := 0
		for _, entry := range parsed {
			if entry.FitID != "" && seen[entry.FitID] {
				continue
			}
			seen[entry.FitID] = true
			entries = append(entries, entry)
			added++
		}

		slog.Info("Processed file",
			"file", filepath.Base(filePath),
			"entries_found", len(parsed),
			"added", added,
			"duplicates", len(parsed)-added)
	}

	if len(entries) == 0 {
		return fmt.Errorf("no transactions found in %d file(s)", len(allFiles))
	}

	if dryRun {
		currency := led.Settings().Currency
		for _, entry := range entries {
			sign := "-"
			if entry.Type == model.TypeIncome {
				sign = "+"
			}
			fmt.Printf("%s  %-40s %s%s\n",
				entry.Date.Format("2006-01-02"), entry.Description,
				sign, formatMoney(entry.Amount, currency))
		}
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be imported", len(entries))))
		return nil
	}

	bar := newImportProgressBar(len(entries))

	imported := 0
	for _, entry := range entries {
		_, err := led.AddTransaction(ctx, ledger.TransactionInput{
			Date:        entry.Date,
			Description: entry.Description,
			CategoryID:  category.ID,
			AccountID:   account.ID,
			Type:        entry.Type,
			Amount:      entry.Amount,
		})
		if err != nil {
			slog.Error("Failed to import transaction",
				"description", entry.Description,
				"error", err)
			continue
		}
		imported++
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d of %d transactions into %q",
		imported, len(entries), account.Name)))
	return nil
}

func newImportProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing transactions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
