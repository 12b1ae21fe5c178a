package parser

import (
	"fmt"
	"regexp"
	"strings"

	"jupiter-swap/pkg/types"
)

// Tokens are either symbols ("SOL", "mSOL", "$WIF") or base58 mint
// addresses, so case is preserved
var swapPattern = regexp.MustCompile(`(?i)^(?:swap\s+)?(\d+\.?\d*)\s+([A-Za-z0-9$._-]+)\s+to\s+([A-Za-z0-9$._-]+)$`)

// ParseSwapCommand parses a natural language swap command
// Examples:
//   - "swap 1 SOL to USDC"
//   - "1.5 mSOL to USDT"
//   - "100 EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v to SOL"
func ParseSwapCommand(command string) (*types.SwapRequest, error) {
	command = strings.Join(strings.Fields(command), " ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 SOL to USDC')")
	}

	req := &types.SwapRequest{
		Amount:      matches[1],
		SourceToken: NormalizeTokenSymbol(matches[2]),
		DestToken:   NormalizeTokenSymbol(matches[3]),
	}
	if err := ValidateSwapRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ValidateSwapRequest validates that a swap request has all required fields
func ValidateSwapRequest(req *types.SwapRequest) error {
	if req.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if req.SourceToken == "" {
		return fmt.Errorf("source token is required")
	}
	if req.DestToken == "" {
		return fmt.Errorf("destination token is required")
	}
	if req.SourceToken == req.DestToken {
		return fmt.Errorf("source and destination token must differ")
	}
	if req.Slippage < 0 {
		return fmt.Errorf("slippage cannot be negative")
	}
	return nil
}

// IsMintAddress reports whether ref looks like a base58 mint address rather
// than a symbol
func IsMintAddress(ref string) bool {
	return len(ref) >= 32 && len(ref) <= 44
}

// NormalizeTokenSymbol upper-cases symbols and maps common aliases. Mint
// addresses are returned untouched.
func NormalizeTokenSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if IsMintAddress(symbol) {
		return symbol
	}
	symbol = strings.ToUpper(symbol)

	// Handle common aliases
	aliases := map[string]string{
		"WSOL": "SOL",
	}

	if normalized, exists := aliases[symbol]; exists {
		return normalized
	}

	return symbol
}
