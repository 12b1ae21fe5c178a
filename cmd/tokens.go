package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jupiter-swap/pkg/catalog"
)

var (
	filterSymbol string
	inputsOnly   bool
)

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List tokens known to the token list",
	Long: `List the tokens of the configured network.

You can filter tokens by symbol or restrict the list to tokens Jupiter can
route from.

Examples:
  jupiter-swap list-tokens
  jupiter-swap list-tokens --symbol USD
  jupiter-swap list-tokens --inputs-only`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
	tokensCmd.Flags().BoolVar(&inputsOnly, "inputs-only", false, "Only tokens that can be swapped from")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd, "")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	stop := startSpinner("Fetching token list...", jsonOutput)
	cat, err := a.loadCatalog(cmd.Context())
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	filtered := filterTokens(cat, filterSymbol, inputsOnly)

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(filtered, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayTokens(filtered, a.cfg.Env)
	}
}

func filterTokens(cat *catalog.Catalog, symbol string, inputsOnly bool) []catalog.Token {
	var filtered []catalog.Token
	for _, token := range cat.Tokens() {
		if symbol != "" && !strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(symbol)) {
			continue
		}
		if inputsOnly {
			if outs, ok := cat.Reachable(token.Address); !ok || len(outs) == 0 {
				continue
			}
		}
		filtered = append(filtered, token)
	}
	return filtered
}

func displayTokens(tokens []catalog.Token, env string) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            SUPPORTED TOKENS (%s)", env)
	fmt.Println(strings.Repeat("=", 90))
	fmt.Println()

	for _, token := range tokens {
		name := token.Name
		if len(name) > 24 {
			name = name[:21] + "..."
		}

		fmt.Printf("  %-10s  %2d decimals  %-24s  %s\n",
			color.YellowString(token.Symbol),
			token.Decimals,
			name,
			color.HiBlackString(token.Address))
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d tokens\n\n", len(tokens))
}
