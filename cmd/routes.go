package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jupiter-swap/pkg/catalog"
	"jupiter-swap/pkg/parser"
)

var routesCmd = &cobra.Command{
	Use:   "routes <token>",
	Short: "List the tokens a token can be swapped into",
	Long: `Show the output tokens Jupiter can route to from the given token, in the
order the route map lists them. The first one is what the swap form picks
when the current output is not reachable.

Examples:
  jupiter-swap routes SOL
  jupiter-swap routes EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v --json`,
	Args: cobra.ExactArgs(1),
	Run:  runRoutes,
}

func init() {
	rootCmd.AddCommand(routesCmd)
}

func runRoutes(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd, "")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	stop := startSpinner("Loading Jupiter route map...", jsonOutput)
	cat, err := a.loadCatalog(cmd.Context())
	stop()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	input, err := resolveToken(cat, parser.NormalizeTokenSymbol(args[0]))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	outs, ok := cat.Reachable(input.Address)
	if !ok {
		printError(fmt.Errorf("%s is not a route map input", args[0]))
		os.Exit(1)
	}

	reachable := make([]catalog.Token, 0, len(outs))
	for _, mint := range outs {
		tok, known := cat.Token(mint)
		if !known {
			tok = catalog.Token{Address: mint, Name: cat.Name(mint)}
		}
		reachable = append(reachable, tok)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(reachable, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("  ROUTES FROM %s", input.Symbol)
	fmt.Println(strings.Repeat("=", 90))
	fmt.Println()
	for _, tok := range reachable {
		fmt.Printf("  %-10s  %-24s  %s\n",
			color.YellowString(tok.Symbol),
			tok.Name,
			color.HiBlackString(tok.Address))
	}
	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d reachable tokens\n\n", len(reachable))
}
