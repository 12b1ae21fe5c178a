package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrTokenNotFound is returned when a symbol or address is not in the catalog
var ErrTokenNotFound = errors.New("token not found")

// Token describes a fungible token
type Token struct {
	Address  string
	Symbol   string
	Name     string
	Decimals uint8
	LogoURI  string
}

// RouteGraph maps an input mint to the output mints reachable from it.
// Inputs keeps the order in which the routing service listed the inputs.
type RouteGraph struct {
	Inputs []string
	Edges  map[string][]string
}

// Catalog is the read-only token catalog and route graph shared by the
// swap form. A pending catalog reports Loaded() == false and answers every
// lookup with nothing.
type Catalog struct {
	tokens map[string]Token
	graph  RouteGraph
	loaded bool
}

// Pending returns a catalog that has not been loaded yet
func Pending() *Catalog {
	return &Catalog{
		tokens: make(map[string]Token),
		graph:  RouteGraph{Edges: make(map[string][]string)},
	}
}

// New builds a loaded catalog
func New(tokens []Token, graph RouteGraph) *Catalog {
	c := &Catalog{
		tokens: make(map[string]Token, len(tokens)),
		graph: RouteGraph{
			Inputs: append([]string(nil), graph.Inputs...),
			Edges:  make(map[string][]string, len(graph.Edges)),
		},
		loaded: true,
	}
	for _, t := range tokens {
		c.tokens[t.Address] = t
	}
	for in, outs := range graph.Edges {
		c.graph.Edges[in] = append([]string(nil), outs...)
	}
	return c
}

// Loaded reports whether the catalog is ready to be used
func (c *Catalog) Loaded() bool {
	return c.loaded
}

// Token looks up a token by address
func (c *Catalog) Token(address string) (Token, bool) {
	t, ok := c.tokens[address]
	return t, ok
}

// Name returns the display name of a token, or "Unknown"
func (c *Catalog) Name(address string) string {
	if t, ok := c.tokens[address]; ok && t.Name != "" {
		return t.Name
	}
	return "Unknown"
}

// Inputs returns the input mints of the route graph in service order
func (c *Catalog) Inputs() []string {
	return append([]string(nil), c.graph.Inputs...)
}

// Reachable returns the outputs reachable from input in service order. The
// second result is false when the input has no entry in the graph at all.
func (c *Catalog) Reachable(input string) ([]string, bool) {
	outs, ok := c.graph.Edges[input]
	if !ok {
		return nil, false
	}
	return append([]string(nil), outs...), true
}

// IsReachable reports whether output can be reached from input
func (c *Catalog) IsReachable(input, output string) bool {
	for _, out := range c.graph.Edges[input] {
		if out == output {
			return true
		}
	}
	return false
}

// Tokens returns all tokens sorted by symbol
func (c *Catalog) Tokens() []Token {
	tokens := make([]Token, 0, len(c.tokens))
	for _, t := range c.tokens {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Symbol == tokens[j].Symbol {
			return tokens[i].Address < tokens[j].Address
		}
		return tokens[i].Symbol < tokens[j].Symbol
	})
	return tokens
}

// FindBySymbol finds a token by exact symbol, case insensitive. When several
// tokens share a symbol, one that is a route-graph input wins.
func (c *Catalog) FindBySymbol(symbol string) (Token, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var matches []Token
	for _, t := range c.Tokens() {
		if strings.ToUpper(t.Symbol) == symbol {
			matches = append(matches, t)
		}
	}
	if len(matches) == 0 {
		return Token{}, fmt.Errorf("%w: %s", ErrTokenNotFound, symbol)
	}

	for _, t := range matches {
		if _, ok := c.graph.Edges[t.Address]; ok {
			return t, nil
		}
	}
	return matches[0], nil
}

// Resolve accepts either a mint address or a symbol
func (c *Catalog) Resolve(ref string) (Token, error) {
	if t, ok := c.tokens[ref]; ok {
		return t, nil
	}
	return c.FindBySymbol(ref)
}
