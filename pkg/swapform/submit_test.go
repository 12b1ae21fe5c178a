package swapform

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jupiter-swap/pkg/jupiter"
	"jupiter-swap/pkg/wallet"
)

type fakeBuilder struct {
	calls []jupiter.SwapRequest
	txs   jupiter.SwapTransactions
	err   error
}

func (b *fakeBuilder) BuildSwap(ctx context.Context, req jupiter.SwapRequest) (*jupiter.SwapTransactions, error) {
	b.calls = append(b.calls, req)
	if b.err != nil {
		return nil, b.err
	}
	txs := b.txs
	return &txs, nil
}

// fakeNetwork identifies transactions by their message bytes and records
// every send and confirm in order
type fakeNetwork struct {
	labels     map[string]string
	sigLabels  map[solana.Signature]string
	events     []string
	sends      int
	failSend   int
	confirmErr error
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{
		labels:    make(map[string]string),
		sigLabels: make(map[solana.Signature]string),
	}
}

func (n *fakeNetwork) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	n.sends++
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return solana.Signature{}, err
	}
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return solana.Signature{}, err
	}
	label := n.labels[string(msg)]
	n.events = append(n.events, "send:"+label)

	if n.sends == n.failSend {
		return solana.Signature{}, errors.New("blockhash not found")
	}
	if err := tx.VerifySignatures(); err != nil {
		return solana.Signature{}, err
	}
	n.sigLabels[tx.Signatures[0]] = label
	return tx.Signatures[0], nil
}

func (n *fakeNetwork) ConfirmTransaction(ctx context.Context, sig solana.Signature) error {
	n.events = append(n.events, "confirm:"+n.sigLabels[sig])
	return n.confirmErr
}

type fakeRecorder struct {
	receipts []Receipt
}

func (r *fakeRecorder) Record(receipt Receipt) error {
	r.receipts = append(r.receipts, receipt)
	return nil
}

// keyOnly has an address but cannot sign
type keyOnly struct {
	key solana.PublicKey
}

func (k keyOnly) PublicKey() (solana.PublicKey, bool) { return k.key, true }

type noKey struct{}

func (noKey) PublicKey() (solana.PublicKey, bool) { return solana.PublicKey{}, false }

// payload builds an unsigned transfer paid by payer and registers its label
// with the network
func payload(t *testing.T, net *fakeNetwork, payer solana.PublicKey, lamports uint64, label string) string {
	t.Helper()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, payer, solana.NewWallet().PublicKey()).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	msg, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	net.labels[string(msg)] = label

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

// coSignedPayload builds an account creation paid by payer whose new account
// has already signed, the way the service hands back setup transactions
func coSignedPayload(t *testing.T, net *fakeNetwork, payer solana.PublicKey, label string) string {
	t.Helper()

	account := solana.NewWallet().PrivateKey
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewCreateAccountInstruction(2039280, 165, solana.TokenProgramID, payer, account.PublicKey()).Build(),
		},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	_, err = tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(account.PublicKey()) {
			return &account
		}
		return nil
	})
	require.NoError(t, err)

	msg, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	net.labels[string(msg)] = label

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

type swapFixture struct {
	form      *Form
	builder   *fakeBuilder
	network   *fakeNetwork
	recorder  *fakeRecorder
	submitter *Submitter
	wallet    *wallet.Keypair
	approvals []int
}

func newSwapFixture(t *testing.T) *swapFixture {
	t.Helper()

	fx := &swapFixture{
		builder:  &fakeBuilder{},
		network:  newFakeNetwork(),
		recorder: &fakeRecorder{},
	}
	fx.wallet = wallet.NewKeypair(solana.NewWallet().PrivateKey, func(count int) bool {
		fx.approvals = append(fx.approvals, count)
		return true
	})
	fx.submitter = NewSubmitter(fx.builder, fx.network, zerolog.Nop(), WithRecorder(fx.recorder))

	fx.form = newForm(&fakeQuotes{routes: []jupiter.Route{route(2_000_000_000, "Orca"), route(1)}}, Options{Amount: 1_000_000, Slippage: 1})
	_, err := fx.form.FetchQuote(context.Background())
	require.NoError(t, err)
	return fx
}

func (fx *swapFixture) owner() solana.PublicKey {
	pk, _ := fx.wallet.PublicKey()
	return pk
}

func TestSwapSendsSetupThenSwap(t *testing.T) {
	fx := newSwapFixture(t)
	fx.builder.txs = jupiter.SwapTransactions{
		SetupTransaction: payload(t, fx.network, fx.owner(), 1, "setup"),
		SwapTransaction:  payload(t, fx.network, fx.owner(), 2, "swap"),
	}

	receipt, err := fx.form.Swap(context.Background(), fx.wallet, fx.submitter)
	require.NoError(t, err)

	assert.Equal(t, []string{"send:setup", "confirm:setup", "send:swap", "confirm:swap"}, fx.network.events)
	assert.Equal(t, []int{2}, fx.approvals, "one approval for the whole batch")

	require.Len(t, fx.builder.calls, 1)
	best, _ := fx.form.BestRoute()
	assert.Equal(t, best, fx.builder.calls[0].Route)
	assert.Equal(t, fx.owner().String(), fx.builder.calls[0].UserPublicKey)

	assert.Len(t, receipt.Signatures, 2)
	assert.Equal(t, 2, receipt.Confirmed)
	assert.Equal(t, []string{"Orca"}, receipt.Labels)
	assert.False(t, fx.form.Submitting())

	require.Len(t, fx.recorder.receipts, 1)
	assert.NoError(t, fx.recorder.receipts[0].Err)
}

func TestSwapKeepsServiceSignatures(t *testing.T) {
	fx := newSwapFixture(t)
	fx.builder.txs = jupiter.SwapTransactions{
		SetupTransaction: coSignedPayload(t, fx.network, fx.owner(), "setup"),
		SwapTransaction:  payload(t, fx.network, fx.owner(), 2, "swap"),
	}

	receipt, err := fx.form.Swap(context.Background(), fx.wallet, fx.submitter)
	require.NoError(t, err)

	assert.Equal(t, []string{"send:setup", "confirm:setup", "send:swap", "confirm:swap"}, fx.network.events)
	assert.Equal(t, 2, receipt.Confirmed)
}

func TestSwapAbortsOnBroadcastFailure(t *testing.T) {
	fx := newSwapFixture(t)
	fx.builder.txs = jupiter.SwapTransactions{
		SetupTransaction:   payload(t, fx.network, fx.owner(), 1, "setup"),
		SwapTransaction:    payload(t, fx.network, fx.owner(), 2, "swap"),
		CleanupTransaction: payload(t, fx.network, fx.owner(), 3, "cleanup"),
	}
	fx.network.failSend = 2

	receipt, err := fx.form.Swap(context.Background(), fx.wallet, fx.submitter)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blockhash not found")

	assert.Equal(t, []string{"send:setup", "confirm:setup", "send:swap"}, fx.network.events)
	assert.Len(t, receipt.Signatures, 1)
	assert.Equal(t, 1, receipt.Confirmed)
	assert.False(t, fx.form.Submitting())

	require.Len(t, fx.recorder.receipts, 1)
	assert.Error(t, fx.recorder.receipts[0].Err)
}

func TestSwapStopsWhenConfirmationFails(t *testing.T) {
	fx := newSwapFixture(t)
	fx.builder.txs = jupiter.SwapTransactions{
		SetupTransaction: payload(t, fx.network, fx.owner(), 1, "setup"),
		SwapTransaction:  payload(t, fx.network, fx.owner(), 2, "swap"),
	}
	fx.network.confirmErr = errors.New("transaction failed")

	_, err := fx.form.Swap(context.Background(), fx.wallet, fx.submitter)
	require.Error(t, err)

	assert.Equal(t, []string{"send:setup", "confirm:setup"}, fx.network.events)
	assert.False(t, fx.form.Submitting())
}

func TestSwapRejectedBySigner(t *testing.T) {
	fx := newSwapFixture(t)
	fx.builder.txs = jupiter.SwapTransactions{
		SwapTransaction: payload(t, fx.network, fx.owner(), 2, "swap"),
	}
	fx.wallet = wallet.NewKeypair(solana.NewWallet().PrivateKey, func(int) bool { return false })

	_, err := fx.form.Swap(context.Background(), fx.wallet, fx.submitter)
	assert.ErrorIs(t, err, wallet.ErrUserRejected)
	assert.Empty(t, fx.network.events)
	assert.False(t, fx.form.Submitting())
}

func TestSwapWithoutTransactions(t *testing.T) {
	fx := newSwapFixture(t)

	_, err := fx.form.Swap(context.Background(), fx.wallet, fx.submitter)
	assert.ErrorIs(t, err, ErrNoTransactions)
	assert.Empty(t, fx.network.events)
	assert.False(t, fx.form.Submitting())
}

func TestSwapIsNoOpWhenNotReady(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(fx *swapFixture)
		wallet func(fx *swapFixture) wallet.Wallet
	}{
		{
			name:  "no routes",
			setup: func(fx *swapFixture) { fx.form.routes = []jupiter.Route{} },
		},
		{
			name:  "already submitting",
			setup: func(fx *swapFixture) { fx.form.submitting = true },
		},
		{
			name: "quote in flight",
			setup: func(fx *swapFixture) {
				require.True(t, fx.form.Refresh())
				require.NotNil(t, fx.form.Sync())
			},
		},
		{
			name:   "no public key",
			wallet: func(*swapFixture) wallet.Wallet { return noKey{} },
		},
		{
			name:   "cannot sign a batch",
			wallet: func(fx *swapFixture) wallet.Wallet { return keyOnly{key: fx.owner()} },
		},
		{
			name:   "nil wallet",
			wallet: func(*swapFixture) wallet.Wallet { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newSwapFixture(t)
			if tt.setup != nil {
				tt.setup(fx)
			}
			var w wallet.Wallet = fx.wallet
			if tt.wallet != nil {
				w = tt.wallet(fx)
			}
			submitting := fx.form.Submitting()

			receipt, err := fx.form.Swap(context.Background(), w, fx.submitter)
			assert.ErrorIs(t, err, ErrNotReady)
			assert.Nil(t, receipt)
			assert.Empty(t, fx.builder.calls)
			assert.Empty(t, fx.network.events)
			assert.Empty(t, fx.recorder.receipts)
			assert.Equal(t, submitting, fx.form.Submitting(), "flag must be untouched")
		})
	}
}

func TestBeginSubmitMarksSubmitting(t *testing.T) {
	fx := newSwapFixture(t)

	job, ok := fx.form.BeginSubmit(fx.wallet)
	require.True(t, ok)
	assert.Equal(t, Submitting, fx.form.State())
	assert.Equal(t, "A", job.InputMint)
	assert.Equal(t, "B", job.OutputMint)
	assert.Equal(t, fx.owner(), job.Owner)

	_, ok = fx.form.BeginSubmit(fx.wallet)
	assert.False(t, ok, "second press while submitting is ignored")

	fx.form.FinishSubmit(errors.New("boom"))
	assert.False(t, fx.form.Submitting())
	assert.Equal(t, Quoted, fx.form.State())
}

func TestDecodeTransactions(t *testing.T) {
	net := newFakeNetwork()
	payer := solana.NewWallet().PublicKey()

	txs, err := DecodeTransactions([]string{
		payload(t, net, payer, 1, "a"),
		payload(t, net, payer, 2, "b"),
	})
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.True(t, txs[0].Message.AccountKeys[0].Equals(payer))

	_, err = DecodeTransactions([]string{"not base64!"})
	assert.Error(t, err)
}
