package jupiter

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoQuoteData is returned when the quote endpoint answers without a data field
var ErrNoQuoteData = errors.New("quote response contained no data")

// QuoteRequest carries the swap form fields sent to the quote endpoint
type QuoteRequest struct {
	Amount     uint64
	InputMint  string
	OutputMint string
	Slippage   int
}

// Fee describes an LP or platform fee charged on a hop
type Fee struct {
	Amount uint64  `json:"amount"`
	Mint   string  `json:"mint"`
	Pct    float64 `json:"pct"`
}

// MarketInfo is one hop of a route
type MarketInfo struct {
	ID                 string  `json:"id"`
	Label              string  `json:"label"`
	InputMint          string  `json:"inputMint"`
	OutputMint         string  `json:"outputMint"`
	NotEnoughLiquidity bool    `json:"notEnoughLiquidity"`
	InAmount           uint64  `json:"inAmount"`
	OutAmount          uint64  `json:"outAmount"`
	PriceImpactPct     float64 `json:"priceImpactPct"`
	LpFee              *Fee    `json:"lpFee,omitempty"`
	PlatformFee        *Fee    `json:"platformFee,omitempty"`
}

// Route is a quote result. It remembers the JSON it was decoded from so it
// can be posted back to the swap endpoint unchanged.
type Route struct {
	InAmount              uint64       `json:"inAmount"`
	OutAmount             uint64       `json:"outAmount"`
	OutAmountWithSlippage uint64       `json:"outAmountWithSlippage"`
	PriceImpactPct        float64      `json:"priceImpactPct"`
	MarketInfos           []MarketInfo `json:"marketInfos"`

	raw json.RawMessage
}

type plainRoute Route

// UnmarshalJSON decodes the known fields and keeps the raw document
func (r *Route) UnmarshalJSON(data []byte) error {
	var p plainRoute
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Route(p)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the original document when there is one
func (r Route) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(plainRoute(r))
}

// Labels returns the hop labels in order
func (r Route) Labels() []string {
	labels := make([]string, 0, len(r.MarketInfos))
	for _, info := range r.MarketInfos {
		labels = append(labels, info.Label)
	}
	return labels
}

// QuoteResponse is the envelope returned by the quote endpoint
type QuoteResponse struct {
	Data        []Route `json:"data"`
	TimeTaken   float64 `json:"timeTaken"`
	ContextSlot uint64  `json:"contextSlot"`
}

// SwapRequest asks the swap endpoint to build transactions for a route
type SwapRequest struct {
	Route         Route  `json:"route"`
	UserPublicKey string `json:"userPublicKey"`
	WrapUnwrapSOL *bool  `json:"wrapUnwrapSOL,omitempty"`
}

// SwapTransactions holds the base64 payloads returned by the swap endpoint.
// Any of them may be empty.
type SwapTransactions struct {
	SetupTransaction   string `json:"setupTransaction,omitempty"`
	SwapTransaction    string `json:"swapTransaction,omitempty"`
	CleanupTransaction string `json:"cleanupTransaction,omitempty"`
}

// Payloads returns the non-empty payloads ordered setup, swap, cleanup
func (s *SwapTransactions) Payloads() []string {
	payloads := make([]string, 0, 3)
	for _, tx := range []string{s.SetupTransaction, s.SwapTransaction, s.CleanupTransaction} {
		if tx != "" {
			payloads = append(payloads, tx)
		}
	}
	return payloads
}

// IndexedRouteMap is the compact route graph served by the API. Each key of
// IndexedRouteMap is an index into MintKeys given as a decimal string.
type IndexedRouteMap struct {
	MintKeys        []string         `json:"mintKeys"`
	IndexedRouteMap map[string][]int `json:"indexedRouteMap"`
}

// TokenInfo is an entry of the solana token list
type TokenInfo struct {
	ChainID  int    `json:"chainId"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
}

// TokenList is the solana token list document
type TokenList struct {
	Name   string      `json:"name"`
	Tokens []TokenInfo `json:"tokens"`
}

// APIError is returned for non-2xx responses
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API returned status code %d", e.StatusCode)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}
