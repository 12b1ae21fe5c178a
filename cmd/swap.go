package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jupiter-swap/pkg/parser"
	"jupiter-swap/pkg/swapform"
	"jupiter-swap/pkg/types"
	"jupiter-swap/pkg/wallet"
)

var (
	swapSlippage int
	noConfirm    bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Swap tokens along the best Jupiter route",
	Long: `Quote a swap, show the best route and execute it with the configured wallet.

The swap may need up to three transactions (setup, swap, cleanup). They are
signed together after a single confirmation, then sent one at a time; each
must confirm before the next is sent. If one fails the rest are not sent.

IMPORTANT:
  - A wallet must be configured (JUPITER_SWAP_KEYPAIR_PATH or JUPITER_SWAP_PRIVATE_KEY)
  - The amount is in human units of the source token

Examples:
  jupiter-swap swap 1 SOL to USDC
  jupiter-swap swap 0.5 SOL to mSOL --slippage 2
  jupiter-swap swap 100 USDC to SOL --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().IntVar(&swapSlippage, "slippage", -1, "Slippage tolerance, passed to the quote API unchanged (default from config)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	swapReq, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	swapReq.Slippage = swapSlippage

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd, "")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	if !a.cfg.HasWallet() {
		printError(wallet.ErrNotConnected)
		color.Yellow("Set JUPITER_SWAP_KEYPAIR_PATH or JUPITER_SWAP_PRIVATE_KEY in your environment or .env file.\n")
		os.Exit(1)
	}

	ctx := cmd.Context()
	form, err := quoteSwap(ctx, a, swapReq, jsonOutput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	quote := quoteDisplay(form, swapReq)
	if !jsonOutput {
		displayQuote(quote)
	}

	// The approval prompt is the wallet's confirmation step: it runs after
	// the transactions are built and before anything is signed.
	stop := func() {}
	approve := func(count int) bool {
		if !noConfirm && !jsonOutput && !confirmSwap(count) {
			return false
		}
		stop = startSpinner(fmt.Sprintf("Sending %d transaction(s)...", count), jsonOutput)
		return true
	}

	adapter := a.adapter(approve)
	if err := adapter.Connect(); err != nil {
		printError(err)
		os.Exit(1)
	}
	if pk, ok := adapter.PublicKey(); ok && verbose {
		fmt.Printf("Wallet: %s\n", color.CyanString(pk.String()))
	}

	receipt, err := form.Swap(ctx, adapter.Wallet(), a.submitter())
	stop()

	if errors.Is(err, wallet.ErrUserRejected) {
		fmt.Println("\nSwap cancelled.")
		return
	}

	if jsonOutput {
		printReceiptJSON(a, quote, receipt, err)
	} else if receipt != nil {
		displayReceipt(a, receipt)
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if !jsonOutput {
		printSuccess(color.GreenString("✓ Swap confirmed!"))
	}
}

func printReceiptJSON(a *app, quote *types.QuoteDisplay, receipt *swapform.Receipt, swapErr error) {
	output := map[string]interface{}{
		"quote":  quote,
		"status": "confirmed",
	}
	if receipt != nil {
		sigs := make([]map[string]string, 0, len(receipt.Signatures))
		for _, sig := range receipt.Signatures {
			sigs = append(sigs, map[string]string{
				"signature": sig.String(),
				"url":       a.ledger.ExplorerURL(sig),
			})
		}
		output["transactions"] = sigs
		output["confirmed"] = receipt.Confirmed
	}
	if swapErr != nil {
		output["status"] = "failed"
		output["error"] = swapErr.Error()
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonData))
}

func displayReceipt(a *app, receipt *swapform.Receipt) {
	if len(receipt.Signatures) == 0 {
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     TRANSACTIONS")
	fmt.Println(strings.Repeat("=", 60))

	for i, sig := range receipt.Signatures {
		state := color.GreenString("confirmed")
		if i >= receipt.Confirmed {
			state = color.RedString("not confirmed")
		}
		fmt.Printf("\n  %d. %s  %s\n", i+1, state, color.HiBlackString(sig.String()))
		fmt.Printf("     %s\n", color.CyanString(a.ledger.ExplorerURL(sig)))
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
}

func confirmSwap(count int) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\nSign and send %d transaction(s)? (y/N): ", count)

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
