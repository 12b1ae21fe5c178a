package catalog

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jupiter-swap/pkg/jupiter"
)

// Source supplies the raw token list and route map
type Source interface {
	TokenList(ctx context.Context) (*jupiter.TokenList, error)
	IndexedRouteMap(ctx context.Context) (*jupiter.IndexedRouteMap, error)
}

// Load fetches the token list and route map concurrently and returns a
// loaded catalog. Only tokens of chainID are kept.
func Load(ctx context.Context, src Source, chainID int, log zerolog.Logger) (*Catalog, error) {
	var (
		list     *jupiter.TokenList
		routeMap *jupiter.IndexedRouteMap
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = src.TokenList(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		routeMap, err = src.IndexedRouteMap(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	tokens := TokensFromList(list, chainID)
	graph := GraphFromIndexed(routeMap)

	log.Info().
		Int("tokens", len(tokens)).
		Int("inputs", len(graph.Inputs)).
		Msg("catalog loaded")

	return New(tokens, graph), nil
}

// TokensFromList converts token list entries of chainID into Tokens,
// dropping entries with an impossible decimal count
func TokensFromList(list *jupiter.TokenList, chainID int) []Token {
	if list == nil {
		return nil
	}

	tokens := make([]Token, 0, len(list.Tokens))
	for _, info := range list.Tokens {
		if info.ChainID != chainID || info.Address == "" {
			continue
		}
		if info.Decimals < 0 || info.Decimals > 255 {
			continue
		}
		tokens = append(tokens, Token{
			Address:  info.Address,
			Symbol:   info.Symbol,
			Name:     info.Name,
			Decimals: uint8(info.Decimals),
			LogoURI:  info.LogoURI,
		})
	}
	return tokens
}

// GraphFromIndexed expands the compact route map. Inputs are ordered by
// their index in MintKeys; indices out of range are skipped.
func GraphFromIndexed(m *jupiter.IndexedRouteMap) RouteGraph {
	graph := RouteGraph{Edges: make(map[string][]string)}
	if m == nil {
		return graph
	}

	type entry struct {
		idx int
		key string
	}
	entries := make([]entry, 0, len(m.IndexedRouteMap))
	for k := range m.IndexedRouteMap {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= len(m.MintKeys) {
			continue
		}
		entries = append(entries, entry{idx: idx, key: k})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })

	for _, e := range entries {
		input := m.MintKeys[e.idx]
		if _, seen := graph.Edges[input]; seen {
			continue
		}
		outs := make([]string, 0, len(m.IndexedRouteMap[e.key]))
		for _, o := range m.IndexedRouteMap[e.key] {
			if o < 0 || o >= len(m.MintKeys) {
				continue
			}
			outs = append(outs, m.MintKeys[o])
		}
		graph.Inputs = append(graph.Inputs, input)
		graph.Edges[input] = outs
	}
	return graph
}
