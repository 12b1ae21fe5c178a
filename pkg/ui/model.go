package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"jupiter-swap/pkg/catalog"
	"jupiter-swap/pkg/swapform"
	"jupiter-swap/pkg/wallet"
)

// Title is the terminal window title
const Title = "Jupiter Swap"

// Deps are the collaborators of the swap screen
type Deps struct {
	Env         string
	Quotes      swapform.QuoteService
	LoadCatalog func(ctx context.Context) (*catalog.Catalog, error)
	Adapter     *wallet.Adapter
	Submitter   *swapform.Submitter
	Options     swapform.Options
	Log         zerolog.Logger
}

type field int

const (
	fieldInput field = iota
	fieldOutput
	fieldAmount
	fieldRefresh
	fieldSwap
	fieldCount
)

type (
	catalogMsg struct {
		cat *catalog.Catalog
		err error
	}
	quoteMsg   swapform.QuoteResult
	connectMsg struct{ err error }
	swapMsg    struct {
		receipt *swapform.Receipt
		err     error
	}
)

// Model is the bubbletea model of the page: the wallet panel next to the
// swap form. Every form mutation happens in Update; network calls run in
// commands and come back as messages.
type Model struct {
	ctx  context.Context
	deps Deps
	log  zerolog.Logger

	form   *swapform.Form
	amount textinput.Model
	spin   spinner.Model
	focus  field

	width  int
	status string
	err    error
}

// New creates the page model. The form starts on a pending catalog and is
// rebuilt once the catalog arrives.
func New(ctx context.Context, deps Deps) Model {
	amount := textinput.New()
	amount.Placeholder = "0"
	amount.CharLimit = 20
	amount.Width = 20
	amount.SetValue(fmt.Sprintf("%d", deps.Options.Amount))

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = statusStyle

	return Model{
		ctx:    ctx,
		deps:   deps,
		log:    deps.Log.With().Str("component", "ui").Logger(),
		form:   swapform.New(catalog.Pending(), deps.Quotes, deps.Options, deps.Log),
		amount: amount,
		spin:   spin,
	}
}

// Form exposes the swap form
func (m Model) Form() *swapform.Form {
	return m.form
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(Title),
		m.spin.Tick,
		m.loadCatalog(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		cmd, quit := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	case catalogMsg:
		if msg.err != nil {
			m.err = msg.err
			m.log.Error().Err(msg.err).Msg("failed to load route map")
			return m, nil
		}
		m.form = swapform.New(msg.cat, m.deps.Quotes, m.formOptions(), m.deps.Log)

	case quoteMsg:
		m.form.ApplyQuote(swapform.QuoteResult(msg))

	case connectMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = "Wallet connected"
		}

	case swapMsg:
		m.form.FinishSubmit(msg.err)
		if msg.err == nil && msg.receipt != nil && len(msg.receipt.Signatures) > 0 {
			last := msg.receipt.Signatures[len(msg.receipt.Signatures)-1]
			m.status = "Swap confirmed: " + last.String()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
	}

	cmds = append(cmds, m.syncQuote())
	return m, tea.Batch(cmds...)
}

// formOptions carries what the user already typed over to a rebuilt form
func (m *Model) formOptions() swapform.Options {
	opts := m.deps.Options
	opts.InputMint = m.form.Input()
	opts.OutputMint = m.form.Output()
	opts.Amount = m.form.Amount()
	opts.Slippage = m.form.Slippage()
	return opts
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return nil, true
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return nil, false
	case "shift+tab", "up":
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return nil, false
	case "ctrl+o":
		return m.connect(), false
	case "ctrl+x":
		m.deps.Adapter.Disconnect()
		m.status = "Wallet disconnected"
		return nil, false
	}

	if m.focus == fieldAmount {
		var cmd tea.Cmd
		m.amount, cmd = m.amount.Update(msg)
		m.form.SetAmountText(m.amount.Value())
		return cmd, false
	}

	switch msg.String() {
	case "q":
		return nil, true
	case "r":
		m.form.Refresh()
	case "left", "h":
		m.cycle(-1)
	case "right", "l":
		m.cycle(1)
	case "enter", " ":
		switch m.focus {
		case fieldRefresh:
			m.form.Refresh()
		case fieldSwap:
			return m.startSwap(), false
		default:
			m.cycle(1)
		}
	}
	return nil, false
}

func (m *Model) setFocus(f field) {
	m.focus = f
	if f == fieldAmount {
		m.amount.Focus()
	} else {
		m.amount.Blur()
	}
}

func (m *Model) cycle(delta int) {
	switch m.focus {
	case fieldInput:
		m.form.SelectInput(next(m.form.InputChoices(), m.form.Input(), delta))
	case fieldOutput:
		m.form.SelectOutput(next(m.form.OutputChoices(), m.form.Output(), delta))
	}
}

// next steps through choices from current, wrapping around. An unknown
// current value starts at the first choice.
func next(choices []string, current string, delta int) string {
	if len(choices) == 0 {
		return current
	}
	for i, c := range choices {
		if c == current {
			n := len(choices)
			return choices[((i+delta)%n+n)%n]
		}
	}
	return choices[0]
}

func (m *Model) loadCatalog() tea.Cmd {
	load, ctx := m.deps.LoadCatalog, m.ctx
	return func() tea.Msg {
		cat, err := load(ctx)
		return catalogMsg{cat: cat, err: err}
	}
}

func (m *Model) syncQuote() tea.Cmd {
	job := m.form.Sync()
	if job == nil {
		return nil
	}
	form, ctx := m.form, m.ctx
	return func() tea.Msg {
		return quoteMsg(form.RunQuote(ctx, job))
	}
}

func (m *Model) connect() tea.Cmd {
	adapter := m.deps.Adapter
	return func() tea.Msg {
		return connectMsg{err: adapter.Connect()}
	}
}

func (m *Model) startSwap() tea.Cmd {
	job, ok := m.form.BeginSubmit(m.deps.Adapter.Wallet())
	if !ok {
		return nil
	}
	m.err = nil
	m.status = ""

	submitter, ctx := m.deps.Submitter, m.ctx
	return func() tea.Msg {
		receipt, err := submitter.Execute(ctx, job)
		return swapMsg{receipt: receipt, err: err}
	}
}

// Run starts the full screen program and blocks until the user quits
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
