package cmd

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"jupiter-swap/config"
	"jupiter-swap/pkg/catalog"
	"jupiter-swap/pkg/history"
	"jupiter-swap/pkg/jupiter"
	"jupiter-swap/pkg/ledger"
	"jupiter-swap/pkg/logging"
	"jupiter-swap/pkg/swapform"
	"jupiter-swap/pkg/wallet"
)

// app wires the collaborators shared by every command
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
	jup    *jupiter.Client
	ledger *ledger.Client
}

// newApp loads configuration and builds the clients. logFile, when set and
// no log file is configured, redirects diagnostics away from the terminal.
func newApp(cmd *cobra.Command, logFile string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	file := cfg.Log.File
	if file == "" {
		file = logFile
	}

	log, closer, err := logging.Setup(level, file)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("env", cfg.Env).Str("rpc", cfg.RPCURL).Str("api", cfg.APIURL).Msg("configuration loaded")

	return &app{
		cfg:    cfg,
		log:    log,
		closer: closer,
		jup:    jupiter.NewClient(cfg.APIURL, cfg.TokenListURL, jupiter.WithLogger(log)),
		ledger: ledger.NewClient(cfg.RPCURL, cfg.Network, cfg.ExplorerURL, log),
	}, nil
}

func (a *app) Close() {
	_ = a.closer.Close()
}

func (a *app) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	return catalog.Load(ctx, a.jup, a.cfg.ChainID(), logging.Component(a.log, "catalog"))
}

// submitter builds the swap submitter, recording receipts when history is
// enabled
func (a *app) submitter() *swapform.Submitter {
	opts := []swapform.SubmitterOption{swapform.WithExplorer(a.ledger.ExplorerURL)}

	if a.cfg.History.Enabled {
		journal, err := history.NewJournal(a.cfg.History.Path)
		if err != nil {
			a.log.Warn().Err(err).Msg("swap history disabled")
		} else {
			opts = append(opts, swapform.WithRecorder(journal))
		}
	}

	return swapform.NewSubmitter(a.jup, a.ledger, a.log, opts...)
}

func (a *app) adapter(approve wallet.Approver) *wallet.Adapter {
	return wallet.NewAdapter(wallet.LoaderFromConfig(a.cfg.Wallet), approve)
}

func (a *app) formOptions() swapform.Options {
	return swapform.Options{
		InputMint:          a.cfg.Form.InputMint,
		OutputMint:         a.cfg.Form.OutputMint,
		Amount:             a.cfg.Form.Amount,
		Slippage:           a.cfg.Form.Slippage,
		DiscardStaleQuotes: a.cfg.Form.DiscardStaleQuotes,
	}
}
