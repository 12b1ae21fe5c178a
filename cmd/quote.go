package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jupiter-swap/pkg/catalog"
	"jupiter-swap/pkg/parser"
	"jupiter-swap/pkg/swapform"
	"jupiter-swap/pkg/types"
)

var quoteSlippage int

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Show the best route for a swap without executing it",
	Long: `Ask Jupiter for the routes of a swap and show the best one.

Tokens may be given by symbol or by mint address. The amount is in human
units of the source token.

Examples:
  jupiter-swap quote 1 SOL to USDC
  jupiter-swap quote 250 USDC to mSOL --slippage 2
  jupiter-swap quote 10 EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v to SOL --json`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().IntVar(&quoteSlippage, "slippage", -1, "Slippage tolerance, passed to the quote API unchanged (default from config)")
}

func runQuote(cmd *cobra.Command, args []string) {
	swapReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	swapReq.Slippage = quoteSlippage

	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd, "")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	form, err := quoteSwap(cmd.Context(), a, swapReq, jsonOutput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	quote := quoteDisplay(form, swapReq)
	if jsonOutput {
		jsonData, _ := json.MarshalIndent(quote, "", "  ")
		fmt.Println(string(jsonData))
		return
	}
	displayQuote(quote)
}

// quoteSwap loads the catalog, fills a form from the request and fetches
// its routes
func quoteSwap(ctx context.Context, a *app, swapReq *types.SwapRequest, jsonOutput bool) (*swapform.Form, error) {
	stop := startSpinner("Loading Jupiter route map...", jsonOutput)
	cat, err := a.loadCatalog(ctx)
	stop()
	if err != nil {
		return nil, err
	}

	src, err := resolveToken(cat, swapReq.SourceToken)
	if err != nil {
		return nil, err
	}
	dst, err := resolveToken(cat, swapReq.DestToken)
	if err != nil {
		return nil, err
	}
	if !cat.IsReachable(src.Address, dst.Address) {
		return nil, fmt.Errorf("no route from %s to %s (try: jupiter-swap routes %s)", swapReq.SourceToken, swapReq.DestToken, swapReq.SourceToken)
	}

	amount, err := swapform.ToRaw(swapReq.Amount, src.Decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if amount == 0 {
		return nil, fmt.Errorf("amount %s is below the smallest unit of %s", swapReq.Amount, swapReq.SourceToken)
	}

	opts := a.formOptions()
	opts.InputMint = src.Address
	opts.OutputMint = dst.Address
	opts.Amount = amount
	if swapReq.Slippage >= 0 {
		opts.Slippage = swapReq.Slippage
	}
	swapReq.Slippage = opts.Slippage

	form := swapform.New(cat, a.jup, opts, a.log)

	stop = startSpinner("Fetching routes...", jsonOutput)
	_, err = form.FetchQuote(ctx)
	stop()
	if err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if len(form.Routes()) == 0 {
		return nil, fmt.Errorf("no routes found for %s %s to %s", swapReq.Amount, swapReq.SourceToken, swapReq.DestToken)
	}
	return form, nil
}

// resolveToken accepts a symbol or a mint address. Mints missing from the
// token list are still usable, they just have no metadata.
func resolveToken(cat *catalog.Catalog, ref string) (catalog.Token, error) {
	tok, err := cat.Resolve(ref)
	if err == nil {
		return tok, nil
	}
	if parser.IsMintAddress(ref) {
		if _, ok := cat.Reachable(ref); ok {
			return catalog.Token{Address: ref, Symbol: ref}, nil
		}
	}
	return catalog.Token{}, fmt.Errorf("%w (try: jupiter-swap list-tokens --symbol %s)", err, ref)
}

func quoteDisplay(form *swapform.Form, swapReq *types.SwapRequest) *types.QuoteDisplay {
	best, _ := form.BestRoute()
	summary, _ := form.Summary()
	cat := form.Catalog()

	quote := &types.QuoteDisplay{
		SourceAmount:   swapReq.Amount,
		SourceToken:    swapReq.SourceToken,
		SourceMint:     form.Input(),
		DestAmount:     summary.OutAmount,
		MinDestAmount:  fmt.Sprintf("%d", best.OutAmountWithSlippage),
		DestToken:      swapReq.DestToken,
		DestMint:       form.Output(),
		PriceImpactPct: best.PriceImpactPct,
		Route:          summary.Labels,
		TotalRoutes:    summary.TotalRoutes,
		Slippage:       form.Slippage(),
	}
	if tok, ok := cat.Token(form.Output()); ok {
		quote.MinDestAmount = swapform.FormatAmount(best.OutAmountWithSlippage, tok.Decimals)
	}
	return quote
}

func displayQuote(quote *types.QuoteDisplay) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n", quote.SourceAmount, color.YellowString(quote.SourceToken))
	fmt.Printf("  To:                ~%s %s\n", quote.DestAmount, color.YellowString(quote.DestToken))
	fmt.Printf("  Minimum Received:  %s %s\n", quote.MinDestAmount, quote.DestToken)
	fmt.Printf("  Slippage:          %d (quote API units)\n", quote.Slippage)
	fmt.Printf("  Price Impact:      %.4f%%\n", quote.PriceImpactPct*100)
	fmt.Printf("  Best Route:        %s\n", color.CyanString(strings.Join(quote.Route, " → ")))
	fmt.Printf("  Total Routes:      %d\n", quote.TotalRoutes)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
