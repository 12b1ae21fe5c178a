package types

// SwapRequest represents a user's swap command
type SwapRequest struct {
	Amount      string
	SourceToken string
	DestToken   string
	Slippage    int
}

// QuoteDisplay holds formatted quote information for display
type QuoteDisplay struct {
	SourceAmount   string   `json:"source_amount"`
	SourceToken    string   `json:"source_token"`
	SourceMint     string   `json:"source_mint"`
	DestAmount     string   `json:"dest_amount"`
	MinDestAmount  string   `json:"min_dest_amount"`
	DestToken      string   `json:"dest_token"`
	DestMint       string   `json:"dest_mint"`
	PriceImpactPct float64  `json:"price_impact_pct"`
	Route          []string `json:"route"`
	TotalRoutes    int      `json:"total_routes"`
	Slippage       int      `json:"slippage"`
}

// SwapStatus represents the on-chain status of a submitted transaction
type SwapStatus struct {
	Signature     string  `json:"signature"`
	Status        string  `json:"status"`
	Slot          uint64  `json:"slot,omitempty"`
	Confirmations *uint64 `json:"confirmations,omitempty"`
	Error         string  `json:"error,omitempty"`
	ExplorerURL   string  `json:"explorer_url"`
}
