package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jupiter-swap",
	Short: "Swap Solana tokens through the Jupiter aggregator",
	Long: `jupiter-swap quotes and executes token swaps on Solana using the Jupiter
routing API. Pick the tokens, let Jupiter find the best route, sign once and
the transactions are sent and confirmed one by one.

Examples:
  jupiter-swap ui
  jupiter-swap quote 1 SOL to USDC
  jupiter-swap swap 1 SOL to USDC --slippage 1
  jupiter-swap list-tokens --symbol USD
  jupiter-swap status <signature>`,
	Version: "0.1.0",
}

// Execute runs the root command. Cancelling ctx aborts in-flight requests.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}

// startSpinner shows a spinner unless output is JSON. The returned func
// stops it.
func startSpinner(suffix string, jsonOutput bool) func() {
	if jsonOutput {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Start()
	return s.Stop
}
