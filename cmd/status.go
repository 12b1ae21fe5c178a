package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"jupiter-swap/pkg/ledger"
	"jupiter-swap/pkg/types"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <signature>",
	Short: "Check the status of a swap transaction",
	Long: `Check the on-chain status of a transaction by its signature.

Examples:
  jupiter-swap status 5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW
  jupiter-swap status <signature> --watch
  jupiter-swap status <signature> --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates until finalized")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if watchStatus {
		if err := checkWatchInterval(watchInterval); err != nil {
			printError(err)
			os.Exit(1)
		}
	}

	sig, err := solana.SignatureFromBase58(args[0])
	if err != nil {
		printError(fmt.Errorf("invalid signature: %w", err))
		os.Exit(1)
	}

	a, err := newApp(cmd, "")
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	if watchStatus {
		watchSwapStatus(cmd.Context(), a.ledger, sig, jsonOutput)
	} else {
		checkSwapStatus(cmd.Context(), a.ledger, sig, jsonOutput)
	}
}

func checkSwapStatus(ctx context.Context, client *ledger.Client, sig solana.Signature, jsonOutput bool) {
	stop := startSpinner("Checking transaction status...", jsonOutput)
	status, err := fetchStatus(ctx, client, sig)
	stop()

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status)
	}
}

func watchSwapStatus(ctx context.Context, client *ledger.Client, sig solana.Signature, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching transaction %s\n", color.CyanString(sig.String()))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	for {
		if checkAndDisplayStatus(ctx, client, sig) {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func checkWatchInterval(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("interval must be a positive number of seconds, got %d", seconds)
	}
	return nil
}

// checkAndDisplayStatus prints the current status and reports whether it
// is final
func checkAndDisplayStatus(ctx context.Context, client *ledger.Client, sig solana.Signature) bool {
	status, err := fetchStatus(ctx, client, sig)
	if err != nil {
		color.Red("Error: %v", err)
		return false
	}

	displayStatus(status)
	return status.Status == "FINALIZED" || status.Status == "FAILED"
}

func fetchStatus(ctx context.Context, client *ledger.Client, sig solana.Signature) (*types.SwapStatus, error) {
	result, err := client.SignatureStatus(ctx, sig)
	if err != nil {
		return nil, err
	}

	status := &types.SwapStatus{
		Signature:   sig.String(),
		Status:      "NOT_FOUND",
		ExplorerURL: client.ExplorerURL(sig),
	}
	if result == nil {
		return status, nil
	}

	status.Slot = result.Slot
	status.Confirmations = result.Confirmations
	status.Status = strings.ToUpper(string(result.ConfirmationStatus))
	if result.Err != nil {
		status.Status = "FAILED"
		status.Error = fmt.Sprintf("%v", result.Err)
	}
	return status, nil
}

func displayStatus(status *types.SwapStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                     TRANSACTION STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Signature:       %s\n", color.CyanString(status.Signature))
	fmt.Printf("  Status:          %s\n", getColoredStatus(status.Status))
	if status.Slot > 0 {
		fmt.Printf("  Slot:            %d\n", status.Slot)
	}
	if status.Confirmations != nil {
		fmt.Printf("  Confirmations:   %d\n", *status.Confirmations)
	}
	if status.Error != "" {
		fmt.Printf("  Error:           %s\n", color.RedString(status.Error))
	}
	fmt.Printf("  Explorer:        %s\n", color.HiBlackString(status.ExplorerURL))

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	switch status {
	case "FINALIZED":
		return color.GreenString(status)
	case "CONFIRMED", "PROCESSED":
		return color.YellowString(status)
	case "FAILED":
		return color.RedString(status)
	case "NOT_FOUND":
		return color.MagentaString(status)
	default:
		return status
	}
}
