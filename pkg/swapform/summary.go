package swapform

import "strconv"

// RouteSummary is the read-only view of the best route
type RouteSummary struct {
	Labels      []string
	OutAmount   string
	Symbol      string
	TotalRoutes int
}

// Output renders the output line, e.g. "2 USDT"
func (s RouteSummary) Output() string {
	if s.Symbol == "" {
		return s.OutAmount
	}
	return s.OutAmount + " " + s.Symbol
}

// Summary describes the best route. The second result is false when there
// is no route to show.
func (f *Form) Summary() (RouteSummary, bool) {
	route, ok := f.BestRoute()
	if !ok {
		return RouteSummary{TotalRoutes: len(f.routes)}, false
	}

	summary := RouteSummary{
		Labels:      route.Labels(),
		TotalRoutes: len(f.routes),
	}

	// Without token metadata the raw amount is shown as is
	if tok, known := f.cat.Token(f.output); known {
		summary.OutAmount = FormatAmount(route.OutAmount, tok.Decimals)
		summary.Symbol = tok.Symbol
	} else {
		summary.OutAmount = strconv.FormatUint(route.OutAmount, 10)
	}
	return summary, true
}

// InputSymbol returns the symbol of the selected input token
func (f *Form) InputSymbol() string {
	if tok, ok := f.cat.Token(f.input); ok {
		return tok.Symbol
	}
	return ""
}
