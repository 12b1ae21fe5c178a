package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"

	"jupiter-swap/config"
)

// ErrConfirmTimeout is returned when a transaction does not reach the
// configured commitment in time
var ErrConfirmTimeout = errors.New("transaction was not confirmed in time")

// TransactionError reports a transaction that landed but failed on chain
type TransactionError struct {
	Signature solana.Signature
	Err       interface{}
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s failed: %v", e.Signature, e.Err)
}

// Client broadcasts raw transactions and waits for their confirmation
type Client struct {
	rpc             *rpc.Client
	commitment      rpc.CommitmentType
	skipPreflight   bool
	confirmTimeout  time.Duration
	confirmInterval time.Duration
	explorerURL     string
	log             zerolog.Logger
}

// NewClient creates a ledger client from configuration
func NewClient(rpcURL string, cfg config.NetworkConfig, explorerURL string, log zerolog.Logger) *Client {
	return &Client{
		rpc:             rpc.New(rpcURL),
		commitment:      Commitment(cfg.Commitment),
		skipPreflight:   cfg.SkipPreflight,
		confirmTimeout:  cfg.ConfirmTimeout,
		confirmInterval: cfg.ConfirmInterval,
		explorerURL:     explorerURL,
		log:             log.With().Str("component", "ledger").Logger(),
	}
}

// Commitment maps a configured name onto the RPC commitment level
func Commitment(name string) rpc.CommitmentType {
	switch strings.ToLower(name) {
	case "finalized":
		return rpc.CommitmentFinalized
	case "processed":
		return rpc.CommitmentProcessed
	default:
		return rpc.CommitmentConfirmed
	}
}

// SendRawTransaction submits a serialized signed transaction
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	opts := rpc.TransactionOpts{
		SkipPreflight:       c.skipPreflight,
		PreflightCommitment: c.commitment,
	}

	sig, err := c.rpc.SendRawTransactionWithOpts(ctx, raw, opts)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.log.Debug().Str("signature", sig.String()).Msg("transaction sent")
	return sig, nil
}

// ConfirmTransaction blocks until sig reaches the configured commitment,
// fails on chain, or the confirm timeout expires
func (c *Client) ConfirmTransaction(ctx context.Context, sig solana.Signature) error {
	if c.confirmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.confirmTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(c.confirmInterval)
	defer ticker.Stop()

	for {
		done, err := c.checkConfirmation(ctx, sig)
		if done {
			return err
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s", ErrConfirmTimeout, sig)
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// checkConfirmation returns true once the outcome of sig is known
func (c *Client) checkConfirmation(ctx context.Context, sig solana.Signature) (bool, error) {
	out, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		// Transient, try again on the next tick
		c.log.Debug().Err(err).Str("signature", sig.String()).Msg("status poll failed")
		return false, nil
	}
	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return false, nil
	}

	status := out.Value[0]
	if status.Err != nil {
		return true, &TransactionError{Signature: sig, Err: status.Err}
	}
	if rank(string(status.ConfirmationStatus)) >= rank(string(c.commitment)) {
		return true, nil
	}
	return false, nil
}

// SignatureStatus looks up the status of a signature, searching history
func (c *Client) SignatureStatus(ctx context.Context, sig solana.Signature) (*rpc.SignatureStatusesResult, error) {
	out, err := c.rpc.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, fmt.Errorf("failed to get signature status: %w", err)
	}
	if out == nil || len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}

// ExplorerURL returns a block explorer link for sig
func (c *Client) ExplorerURL(sig solana.Signature) string {
	return c.explorerURL + sig.String()
}

func rank(level string) int {
	switch strings.ToLower(level) {
	case "processed":
		return 1
	case "confirmed":
		return 2
	case "finalized":
		return 3
	default:
		return 0
	}
}
