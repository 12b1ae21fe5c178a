package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jupiter-swap/pkg/history"
	"jupiter-swap/pkg/swapform"
)

var clearHistory bool

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "Show swaps submitted from this machine",
	Long: `Show the swap journal. Swaps are only recorded when history is enabled:

  JUPITER_SWAP_HISTORY_ENABLED=true

Examples:
  jupiter-swap history
  jupiter-swap history 3f1c2a9e-5b7d-4c1e-9a0f-2d6b8e4c7a11
  jupiter-swap history --json
  jupiter-swap history --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "Delete every recorded swap")
}

func runHistory(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd, "")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	journal, err := history.NewJournal(a.cfg.History.Path)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if clearHistory {
		if err := journal.Clear(); err != nil {
			printError(err)
			os.Exit(1)
		}
		printSuccess(color.GreenString("✓ Swap history cleared"))
		return
	}

	entries := journal.List()
	if len(args) == 1 {
		entry, err := journal.Get(args[0])
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		entries = []*history.Entry{entry}
	}
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if !a.cfg.History.Enabled {
		color.Yellow("\nHistory recording is disabled (set JUPITER_SWAP_HISTORY_ENABLED=true).")
	}
	displayHistory(cmd.Context(), a, entries, journal.Path())
}

func displayHistory(ctx context.Context, a *app, entries []*history.Entry, path string) {
	if len(entries) == 0 {
		fmt.Println("\nNo swaps recorded.")
		return
	}

	// Token metadata is best effort, the catalog may be unreachable
	describe := func(raw uint64, mint string) string {
		return fmt.Sprintf("%d %s", raw, mint)
	}
	if cat, err := a.loadCatalog(ctx); err == nil {
		describe = func(raw uint64, mint string) string {
			if tok, ok := cat.Token(mint); ok {
				return swapform.FormatAmount(raw, tok.Decimals) + " " + tok.Symbol
			}
			return fmt.Sprintf("%d %s", raw, mint)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                              SWAP HISTORY")
	fmt.Println(strings.Repeat("=", 90))

	for _, e := range entries {
		fmt.Printf("\n  %s  %s\n", color.HiBlackString(e.Timestamp.Format("2006-01-02 15:04:05")), getColoredEntryStatus(e.Status))
		fmt.Printf("    %s → %s", describe(e.InAmount, e.InputMint), describe(e.OutAmount, e.OutputMint))
		if route := e.Route(); route != "" {
			fmt.Printf("  via %s", color.CyanString(route))
		}
		fmt.Println()
		for _, sig := range e.Signatures {
			fmt.Printf("    %s\n", color.HiBlackString(sig))
		}
		if e.Error != "" {
			fmt.Printf("    %s\n", color.RedString(e.Error))
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d swaps (%s)\n\n", len(entries), path)
}

func getColoredEntryStatus(status history.EntryStatus) string {
	s := strings.ToUpper(string(status))
	switch status {
	case history.StatusConfirmed:
		return color.GreenString(s)
	case history.StatusPartial:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}
