package swapform

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"jupiter-swap/pkg/catalog"
	"jupiter-swap/pkg/jupiter"
)

// State is the phase of the swap form
type State int

const (
	Idle State = iota
	Quoting
	Quoted
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Quoting:
		return "quoting"
	case Quoted:
		return "quoted"
	case Submitting:
		return "submitting"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// QuoteService returns routes ranked best first
type QuoteService interface {
	Quote(ctx context.Context, req jupiter.QuoteRequest) ([]jupiter.Route, error)
}

// Options are the initial form values
type Options struct {
	InputMint  string
	OutputMint string
	Amount     uint64
	Slippage   int

	// DiscardStaleQuotes drops quote responses that were overtaken by a
	// newer request. Off by default: a late response overwrites the routes.
	DiscardStaleQuotes bool
}

// QuoteJob is a quote request the UI must run
type QuoteJob struct {
	Request    jupiter.QuoteRequest
	Generation uint64
}

// QuoteResult is the outcome of a QuoteJob
type QuoteResult struct {
	Generation uint64
	Routes     []jupiter.Route
	Err        error
}

// Form holds the swap form state. All methods except RunQuote must be called
// from the goroutine that owns the form (the UI loop); RunQuote only reads
// immutable collaborators and may run anywhere.
type Form struct {
	cat    *catalog.Catalog
	quotes QuoteService
	log    zerolog.Logger

	input    string
	output   string
	amount   uint64
	slippage int

	routes     []jupiter.Route
	loading    bool
	submitting bool
	quoted     bool

	discardStale bool
	generation   uint64
	lastFetched  *jupiter.QuoteRequest
	refresh      bool
}

// New creates a form bound to a catalog and quote service
func New(cat *catalog.Catalog, quotes QuoteService, opts Options, log zerolog.Logger) *Form {
	f := &Form{
		cat:          cat,
		quotes:       quotes,
		log:          log.With().Str("component", "swapform").Logger(),
		input:        opts.InputMint,
		output:       opts.OutputMint,
		amount:       opts.Amount,
		slippage:     opts.Slippage,
		routes:       []jupiter.Route{},
		discardStale: opts.DiscardStaleQuotes,
	}
	f.reconcileOutput()
	return f
}

// Catalog returns the catalog the form was built with
func (f *Form) Catalog() *catalog.Catalog { return f.cat }

// Input returns the selected input mint
func (f *Form) Input() string { return f.input }

// Output returns the selected output mint
func (f *Form) Output() string { return f.output }

// Amount returns the raw input amount
func (f *Form) Amount() uint64 { return f.amount }

// Slippage returns the slippage sent with quotes
func (f *Form) Slippage() int { return f.slippage }

// Loading reports whether a quote is in flight
func (f *Form) Loading() bool { return f.loading }

// Submitting reports whether a swap is being submitted
func (f *Form) Submitting() bool { return f.submitting }

// Routes returns the current route list
func (f *Form) Routes() []jupiter.Route {
	return append([]jupiter.Route(nil), f.routes...)
}

// State returns the current phase
func (f *Form) State() State {
	switch {
	case f.submitting:
		return Submitting
	case f.loading:
		return Quoting
	case f.quoted:
		return Quoted
	default:
		return Idle
	}
}

// InputChoices lists the selectable input mints
func (f *Form) InputChoices() []string {
	return f.cat.Inputs()
}

// OutputChoices lists the outputs reachable from the selected input
func (f *Form) OutputChoices() []string {
	outs, _ := f.cat.Reachable(f.input)
	return outs
}

// SelectInput changes the input token and keeps the output reachable
func (f *Form) SelectInput(mint string) {
	f.input = mint
	f.reconcileOutput()
}

// SelectOutput changes the output token. An output that is not reachable
// from the input is replaced by the first reachable one.
func (f *Form) SelectOutput(mint string) {
	f.output = mint
	f.reconcileOutput()
}

// SetAmountText applies a keystroke-level edit of the amount field
func (f *Form) SetAmountText(text string) {
	f.amount = ParseAmount(text)
}

// SetAmount sets the raw input amount
func (f *Form) SetAmount(amount uint64) {
	f.amount = amount
}

// SetSlippage sets the slippage sent with quotes
func (f *Form) SetSlippage(slippage int) {
	if slippage < 0 {
		slippage = 0
	}
	f.slippage = slippage
}

// Refresh asks for a new quote with unchanged inputs. It is ignored while a
// quote is in flight and reports whether it was accepted.
func (f *Form) Refresh() bool {
	if f.loading {
		return false
	}
	f.refresh = true
	return true
}

func (f *Form) reconcileOutput() {
	outs, ok := f.cat.Reachable(f.input)
	if !ok || len(outs) == 0 {
		return
	}
	for _, out := range outs {
		if out == f.output {
			return
		}
	}
	f.output = outs[0]
}

func (f *Form) request() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		Amount:     f.amount,
		InputMint:  f.input,
		OutputMint: f.output,
		Slippage:   f.slippage,
	}
}

// Sync runs the quote effect. It returns a job on the first call after the
// catalog is loaded, after any change to amount, input, output or slippage,
// and after an accepted Refresh; otherwise nil.
func (f *Form) Sync() *QuoteJob {
	if !f.cat.Loaded() {
		return nil
	}

	req := f.request()
	if f.lastFetched != nil && *f.lastFetched == req && !f.refresh {
		return nil
	}

	f.refresh = false
	f.lastFetched = &req
	f.loading = true
	f.generation++

	return &QuoteJob{Request: req, Generation: f.generation}
}

// RunQuote performs a quote job without touching form state
func (f *Form) RunQuote(ctx context.Context, job *QuoteJob) QuoteResult {
	routes, err := f.quotes.Quote(ctx, job.Request)
	return QuoteResult{Generation: job.Generation, Routes: routes, Err: err}
}

// ApplyQuote applies a finished quote. On failure the previous routes are
// kept.
func (f *Form) ApplyQuote(res QuoteResult) {
	if f.discardStale && res.Generation != f.generation {
		f.log.Debug().
			Uint64("generation", res.Generation).
			Uint64("latest", f.generation).
			Msg("discarding stale quote")
		return
	}

	f.loading = false
	if res.Err != nil {
		f.log.Warn().Err(res.Err).Msg("quote failed, keeping previous routes")
		return
	}

	f.routes = res.Routes
	if f.routes == nil {
		f.routes = []jupiter.Route{}
	}
	f.quoted = true
}

// FetchQuote runs Sync, RunQuote and ApplyQuote in one go. It returns false
// when no quote was needed.
func (f *Form) FetchQuote(ctx context.Context) (bool, error) {
	job := f.Sync()
	if job == nil {
		return false, nil
	}
	res := f.RunQuote(ctx, job)
	f.ApplyQuote(res)
	return true, res.Err
}

// BestRoute returns the first route, if any
func (f *Form) BestRoute() (jupiter.Route, bool) {
	if len(f.routes) == 0 {
		return jupiter.Route{}, false
	}
	return f.routes[0], true
}
