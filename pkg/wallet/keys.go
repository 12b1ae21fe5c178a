package wallet

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"jupiter-swap/config"
)

// ParsePrivateKey decodes a base58 encoded 64 byte Solana secret key
func ParsePrivateKey(encoded string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("invalid private key: expected 64 bytes, got %d", len(raw))
	}
	return solana.PrivateKey(raw), nil
}

// LoadKeypair reads a solana-keygen JSON keypair file
func LoadKeypair(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair file: %w", err)
	}
	return key, nil
}

// LoaderFromConfig returns a key loader for the configured key source. The
// keypair file wins over an inline private key.
func LoaderFromConfig(cfg config.WalletConfig) func() (solana.PrivateKey, error) {
	return func() (solana.PrivateKey, error) {
		switch {
		case cfg.KeypairPath != "":
			return LoadKeypair(cfg.KeypairPath)
		case cfg.PrivateKey != "":
			return ParsePrivateKey(cfg.PrivateKey)
		default:
			return nil, fmt.Errorf("no wallet configured. Set JUPITER_SWAP_KEYPAIR_PATH or JUPITER_SWAP_PRIVATE_KEY")
		}
	}
}
