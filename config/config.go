package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Well-known mints used as the initial form selection.
const (
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

// Config holds the application configuration
type Config struct {
	Env          string
	RPCURL       string
	APIURL       string
	TokenListURL string
	ExplorerURL  string

	Wallet  WalletConfig
	Network NetworkConfig
	Form    FormConfig
	History HistoryConfig
	Log     LogConfig
}

// WalletConfig describes where the signing key comes from
type WalletConfig struct {
	KeypairPath string
	PrivateKey  string
}

// NetworkConfig controls broadcast and confirmation behaviour
type NetworkConfig struct {
	Commitment      string
	SkipPreflight   bool
	ConfirmTimeout  time.Duration
	ConfirmInterval time.Duration
}

// FormConfig holds the initial swap form values
type FormConfig struct {
	InputMint          string
	OutputMint         string
	Amount             uint64
	Slippage           int
	DiscardStaleQuotes bool
}

// HistoryConfig controls the optional swap receipt journal
type HistoryConfig struct {
	Enabled bool
	Path    string
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level string
	File  string
}

var rpcEndpoints = map[string]string{
	"mainnet-beta": "https://api.mainnet-beta.solana.com",
	"devnet":       "https://api.devnet.solana.com",
	"testnet":      "https://api.testnet.solana.com",
}

var chainIDs = map[string]int{
	"mainnet-beta": 101,
	"testnet":      102,
	"devnet":       103,
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("env", "mainnet-beta")
	v.SetDefault("api_url", "https://quote-api.jup.ag")
	v.SetDefault("token_list_url", "https://cdn.jsdelivr.net/gh/solana-labs/token-list@main/src/tokens/solana.tokenlist.json")
	v.SetDefault("explorer_url", "https://solscan.io/tx/")

	v.SetDefault("commitment", "confirmed")
	v.SetDefault("skip_preflight", false)
	v.SetDefault("confirm_timeout", 60*time.Second)
	v.SetDefault("confirm_interval", 2*time.Second)

	v.SetDefault("input_mint", USDCMint)
	v.SetDefault("output_mint", USDTMint)
	v.SetDefault("amount", 1_000_000)
	v.SetDefault("slippage", 1)
	v.SetDefault("discard_stale_quotes", false)

	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
}

// Load reads configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetConfigName(".jupiter-swap")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(".")

	SetDefaults(viper.GetViper())

	viper.SetEnvPrefix("JUPITER_SWAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Config file is optional
	_ = viper.ReadInConfig()

	return FromViper(viper.GetViper())
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:          v.GetString("env"),
		RPCURL:       v.GetString("rpc_url"),
		APIURL:       strings.TrimRight(v.GetString("api_url"), "/"),
		TokenListURL: v.GetString("token_list_url"),
		ExplorerURL:  v.GetString("explorer_url"),
		Wallet: WalletConfig{
			KeypairPath: v.GetString("keypair_path"),
			PrivateKey:  v.GetString("private_key"),
		},
		Network: NetworkConfig{
			Commitment:      v.GetString("commitment"),
			SkipPreflight:   v.GetBool("skip_preflight"),
			ConfirmTimeout:  v.GetDuration("confirm_timeout"),
			ConfirmInterval: v.GetDuration("confirm_interval"),
		},
		Form: FormConfig{
			InputMint:          v.GetString("input_mint"),
			OutputMint:         v.GetString("output_mint"),
			Amount:             v.GetUint64("amount"),
			Slippage:           v.GetInt("slippage"),
			DiscardStaleQuotes: v.GetBool("discard_stale_quotes"),
		},
		History: HistoryConfig{
			Enabled: v.GetBool("history.enabled"),
			Path:    v.GetString("history.path"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
			File:  v.GetString("log.file"),
		},
	}

	if cfg.RPCURL == "" {
		cfg.RPCURL = rpcEndpoints[cfg.Env]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if _, ok := chainIDs[c.Env]; !ok {
		return fmt.Errorf("unknown env %q: expected mainnet-beta, devnet or testnet", c.Env)
	}

	for name, raw := range map[string]string{
		"rpc_url":        c.RPCURL,
		"api_url":        c.APIURL,
		"token_list_url": c.TokenListURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}

	switch strings.ToLower(c.Network.Commitment) {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("invalid commitment %q: expected processed, confirmed or finalized", c.Network.Commitment)
	}

	if c.Network.ConfirmInterval <= 0 {
		return fmt.Errorf("confirm_interval must be positive")
	}
	if c.Form.Slippage < 0 {
		return fmt.Errorf("slippage cannot be negative")
	}
	return nil
}

// ChainID returns the token-list chain id for the configured env
func (c *Config) ChainID() int {
	return chainIDs[c.Env]
}

// HasWallet reports whether a signing key is configured
func (c *Config) HasWallet() bool {
	return c.Wallet.KeypairPath != "" || c.Wallet.PrivateKey != ""
}
