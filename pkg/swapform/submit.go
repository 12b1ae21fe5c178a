package swapform

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"jupiter-swap/pkg/jupiter"
	"jupiter-swap/pkg/wallet"
)

// SwapBuilder turns a route into transaction payloads
type SwapBuilder interface {
	BuildSwap(ctx context.Context, req jupiter.SwapRequest) (*jupiter.SwapTransactions, error)
}

// Network broadcasts transactions and waits for their confirmation
type Network interface {
	SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error)
	ConfirmTransaction(ctx context.Context, sig solana.Signature) error
}

// Recorder receives a receipt for every submission attempt
type Recorder interface {
	Record(receipt Receipt) error
}

// SubmitJob is an accepted "Swap Best Route" press
type SubmitJob struct {
	Route      jupiter.Route
	InputMint  string
	OutputMint string
	Owner      solana.PublicKey
	Signer     wallet.BatchSigner
}

// Receipt describes what a submission did. Signatures lists every
// transaction that was broadcast, even when a later step failed.
type Receipt struct {
	InputMint   string
	OutputMint  string
	InAmount    uint64
	OutAmount   uint64
	Labels      []string
	Owner       string
	Signatures  []solana.Signature
	Confirmed   int
	SubmittedAt time.Time
	Err         error
}

// BeginSubmit checks the submit preconditions and, when they hold, marks
// the form as submitting. It is a no-op returning false otherwise.
func (f *Form) BeginSubmit(w wallet.Wallet) (*SubmitJob, bool) {
	if f.submitting || f.loading || len(f.routes) == 0 || w == nil {
		return nil, false
	}

	owner, ok := w.PublicKey()
	if !ok {
		return nil, false
	}
	signer, ok := w.(wallet.BatchSigner)
	if !ok {
		return nil, false
	}

	f.submitting = true
	return &SubmitJob{
		Route:      f.routes[0],
		InputMint:  f.input,
		OutputMint: f.output,
		Owner:      owner,
		Signer:     signer,
	}, true
}

// FinishSubmit clears the submitting flag and logs a failure
func (f *Form) FinishSubmit(err error) {
	f.submitting = false
	if err != nil {
		f.log.Error().Err(err).Msg("swap failed")
	}
}

// Swap runs a whole submission. The submitting flag is cleared whatever
// happens.
func (f *Form) Swap(ctx context.Context, w wallet.Wallet, s *Submitter) (receipt *Receipt, err error) {
	job, ok := f.BeginSubmit(w)
	if !ok {
		return nil, ErrNotReady
	}
	defer func() {
		f.FinishSubmit(err)
	}()

	return s.Execute(ctx, job)
}

// Submitter builds, signs and sends the transactions of a route
type Submitter struct {
	builder  SwapBuilder
	network  Network
	recorder Recorder
	explorer func(solana.Signature) string
	log      zerolog.Logger
}

// SubmitterOption configures a Submitter
type SubmitterOption func(*Submitter)

// WithRecorder stores every receipt
func WithRecorder(r Recorder) SubmitterOption {
	return func(s *Submitter) {
		s.recorder = r
	}
}

// WithExplorer sets the link builder used when logging confirmations
func WithExplorer(fn func(solana.Signature) string) SubmitterOption {
	return func(s *Submitter) {
		s.explorer = fn
	}
}

// NewSubmitter creates a submitter
func NewSubmitter(builder SwapBuilder, network Network, log zerolog.Logger, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		builder: builder,
		network: network,
		explorer: func(sig solana.Signature) string {
			return sig.String()
		},
		log: log.With().Str("component", "submitter").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute requests the transactions for the job's route, signs them in one
// batch and sends them one at a time, waiting for each to confirm before
// sending the next. The first failure stops the sequence.
func (s *Submitter) Execute(ctx context.Context, job *SubmitJob) (*Receipt, error) {
	receipt := &Receipt{
		InputMint:   job.InputMint,
		OutputMint:  job.OutputMint,
		InAmount:    job.Route.InAmount,
		OutAmount:   job.Route.OutAmount,
		Labels:      job.Route.Labels(),
		Owner:       job.Owner.String(),
		SubmittedAt: time.Now(),
	}

	err := s.execute(ctx, job, receipt)
	receipt.Err = err

	if s.recorder != nil {
		if recErr := s.recorder.Record(*receipt); recErr != nil {
			s.log.Warn().Err(recErr).Msg("failed to record swap")
		}
	}
	return receipt, err
}

func (s *Submitter) execute(ctx context.Context, job *SubmitJob, receipt *Receipt) error {
	built, err := s.builder.BuildSwap(ctx, jupiter.SwapRequest{
		Route:         job.Route,
		UserPublicKey: job.Owner.String(),
	})
	if err != nil {
		return err
	}

	txs, err := DecodeTransactions(built.Payloads())
	if err != nil {
		return err
	}
	if len(txs) == 0 {
		return ErrNoTransactions
	}

	signed, err := job.Signer.SignAllTransactions(ctx, txs)
	if err != nil {
		return fmt.Errorf("failed to sign transactions: %w", err)
	}

	for i, tx := range signed {
		raw, err := tx.MarshalBinary()
		if err != nil {
			return fmt.Errorf("failed to serialize transaction %d: %w", i+1, err)
		}

		sig, err := s.network.SendRawTransaction(ctx, raw)
		if err != nil {
			return fmt.Errorf("transaction %d of %d: %w", i+1, len(signed), err)
		}
		receipt.Signatures = append(receipt.Signatures, sig)

		if err := s.network.ConfirmTransaction(ctx, sig); err != nil {
			return fmt.Errorf("transaction %d of %d: %w", i+1, len(signed), err)
		}
		receipt.Confirmed++

		s.log.Info().
			Int("step", i+1).
			Int("of", len(signed)).
			Str("signature", sig.String()).
			Str("url", s.explorer(sig)).
			Msg("transaction confirmed")
	}
	return nil
}

// DecodeTransactions decodes base64 wire transactions, keeping their order
func DecodeTransactions(payloads []string) ([]*solana.Transaction, error) {
	txs := make([]*solana.Transaction, 0, len(payloads))
	for i, payload := range payloads {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode transaction %d: %w", i+1, err)
		}
		tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction %d: %w", i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
