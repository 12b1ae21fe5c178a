package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jupiter-swap/pkg/catalog"
	"jupiter-swap/pkg/jupiter"
	"jupiter-swap/pkg/swapform"
	"jupiter-swap/pkg/wallet"
)

type stubQuotes struct {
	routes []jupiter.Route
}

func (s stubQuotes) Quote(ctx context.Context, req jupiter.QuoteRequest) ([]jupiter.Route, error) {
	return s.routes, nil
}

type failingBuilder struct{}

func (failingBuilder) BuildSwap(ctx context.Context, req jupiter.SwapRequest) (*jupiter.SwapTransactions, error) {
	return nil, errors.New("route expired")
}

type idleNetwork struct{}

func (idleNetwork) SendRawTransaction(ctx context.Context, raw []byte) (solana.Signature, error) {
	return solana.Signature{}, errors.New("unexpected send")
}

func (idleNetwork) ConfirmTransaction(ctx context.Context, sig solana.Signature) error {
	return nil
}

func testCatalog() *catalog.Catalog {
	return catalog.New(
		[]catalog.Token{
			{Address: "A", Symbol: "A", Name: "Token A", Decimals: 6},
			{Address: "B", Symbol: "B", Name: "Token B", Decimals: 9},
		},
		catalog.RouteGraph{
			Inputs: []string{"A", "B"},
			Edges:  map[string][]string{"A": {"B", "Z"}, "B": {"A"}},
		},
	)
}

func newTestModel(t *testing.T) (Model, *wallet.Adapter) {
	t.Helper()

	key := solana.NewWallet().PrivateKey
	adapter := wallet.NewAdapter(func() (solana.PrivateKey, error) { return key, nil }, nil)

	m := New(context.Background(), Deps{
		Env: "devnet",
		Quotes: stubQuotes{routes: []jupiter.Route{
			{InAmount: 1_000_000, OutAmount: 2_000_000_000, MarketInfos: []jupiter.MarketInfo{{Label: "Orca"}}},
		}},
		LoadCatalog: func(ctx context.Context) (*catalog.Catalog, error) { return testCatalog(), nil },
		Adapter:     adapter,
		Submitter:   swapform.NewSubmitter(failingBuilder{}, idleNetwork{}, zerolog.Nop()),
		Options:     swapform.Options{InputMint: "A", OutputMint: "B", Amount: 1_000_000, Slippage: 1},
		Log:         zerolog.Nop(),
	})
	return m, adapter
}

// drain runs cmd and every command it batches, collecting the messages
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, drain(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// settle feeds messages produced by cmd back into the model until quiet
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for i := 0; cmd != nil && i < 10; i++ {
		var cmds []tea.Cmd
		for _, msg := range drain(cmd) {
			var c tea.Cmd
			m, c = update(t, m, msg)
			cmds = append(cmds, c)
		}
		cmd = tea.Batch(cmds...)
	}
	return m
}

func TestViewBeforeCatalogLoads(t *testing.T) {
	m, _ := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, Title)
	assert.Contains(t, view, "Network: devnet")
	assert.Contains(t, view, "Wallet not connected!")
	assert.Contains(t, view, wallet.ConnectLabel)
	assert.Contains(t, view, "Loading Jupiter route map...")
	assert.NotNil(t, m.Init())
}

func TestCatalogLoadTriggersQuote(t *testing.T) {
	m, _ := newTestModel(t)

	m = settle(t, m, m.loadCatalog())

	view := m.View()
	assert.NotContains(t, view, "Loading Jupiter route map...")
	assert.Contains(t, view, "Token A")
	assert.Contains(t, view, "Total routes: 1")
	assert.Contains(t, view, "Output: 2 B")
	assert.Contains(t, view, "Orca")
	assert.Equal(t, swapform.Quoted, m.Form().State())
}

func TestSelectorsCycleAndShowUnknown(t *testing.T) {
	m, _ := newTestModel(t)
	m = settle(t, m, m.loadCatalog())

	// focus output, step to the token without metadata
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "Z", m.Form().Output())
	assert.Contains(t, m.View(), "Unknown")
	require.NotNil(t, cmd, "output change issues a quote")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "B", m.Form().Output())
}

func TestAmountFieldCoercesInput(t *testing.T) {
	m, _ := newTestModel(t)
	m = settle(t, m, m.loadCatalog())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	assert.Equal(t, uint64(0), m.Form().Amount())
}

func TestConnectShowsAddress(t *testing.T) {
	m, adapter := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	m = settle(t, m, cmd)

	pk, ok := adapter.PublicKey()
	require.True(t, ok)
	view := m.View()
	assert.Contains(t, view, "Your address: "+pk.String())
	assert.NotContains(t, view, "Wallet not connected!")
}

func TestSwapFailureClearsSubmitting(t *testing.T) {
	m, adapter := newTestModel(t)
	require.NoError(t, adapter.Connect())
	m = settle(t, m, m.loadCatalog())

	for i := 0; i < int(fieldSwap); i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Form().Submitting())
	assert.Contains(t, m.View(), "Swapping..")

	m = settle(t, m, cmd)
	assert.False(t, m.Form().Submitting())
	assert.NotContains(t, m.View(), "route expired")
	assert.NotContains(t, m.View(), "Error:")
	assert.Contains(t, m.View(), "Swap Best Route")
}

func TestQuoteFailureIsNotShown(t *testing.T) {
	m, _ := newTestModel(t)
	m = settle(t, m, m.loadCatalog())
	require.Contains(t, m.View(), "Output: 2 B")

	m, _ = update(t, m, quoteMsg{Err: errors.New("503 upstream")})

	view := m.View()
	assert.NotContains(t, view, "503 upstream")
	assert.NotContains(t, view, "Error:")
	assert.Contains(t, view, "Output: 2 B")
}

func TestSwapWithoutWalletIsIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m = settle(t, m, m.loadCatalog())

	for i := 0; i < int(fieldSwap); i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.Form().Submitting())
}

func TestNext(t *testing.T) {
	choices := []string{"a", "b", "c"}
	assert.Equal(t, "b", next(choices, "a", 1))
	assert.Equal(t, "c", next(choices, "a", -1))
	assert.Equal(t, "a", next(choices, "c", 1))
	assert.Equal(t, "a", next(choices, "zzz", -1))
	assert.Equal(t, "x", next(nil, "x", 1))
}
