package jupiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Client talks to the Jupiter v1 quote and swap API
type Client struct {
	httpClient   *http.Client
	baseURL      string
	tokenListURL string
	log          zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log.With().Str("component", "jupiter").Logger()
	}
}

// NewClient creates a new Jupiter API client. No request timeout is set:
// callers bound requests through the context.
func NewClient(baseURL, tokenListURL string, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{},
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenListURL: tokenListURL,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote fetches the ranked routes for a swap. The first route is the best.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) ([]Route, error) {
	params := url.Values{}
	params.Set("amount", strconv.FormatUint(req.Amount, 10))
	params.Set("inputMint", req.InputMint)
	params.Set("outputMint", req.OutputMint)
	params.Set("slippage", strconv.Itoa(req.Slippage))

	var resp QuoteResponse
	if err := c.getJSON(ctx, c.baseURL+"/v1/quote?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}
	if resp.Data == nil {
		return nil, ErrNoQuoteData
	}

	c.log.Debug().
		Str("input", req.InputMint).
		Str("output", req.OutputMint).
		Uint64("amount", req.Amount).
		Int("routes", len(resp.Data)).
		Float64("time_taken", resp.TimeTaken).
		Msg("quote received")

	return resp.Data, nil
}

// BuildSwap asks the API for the transactions that execute a route
func (c *Client) BuildSwap(ctx context.Context, req SwapRequest) (*SwapTransactions, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/swap", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create swap request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var txs SwapTransactions
	if err := c.do(httpReq, &txs); err != nil {
		return nil, fmt.Errorf("failed to build swap: %w", err)
	}
	return &txs, nil
}

// IndexedRouteMap fetches the route graph
func (c *Client) IndexedRouteMap(ctx context.Context) (*IndexedRouteMap, error) {
	var m IndexedRouteMap
	if err := c.getJSON(ctx, c.baseURL+"/v1/indexed-route-map?onlyDirectRoutes=false", &m); err != nil {
		return nil, fmt.Errorf("failed to get route map: %w", err)
	}
	return &m, nil
}

// TokenList fetches the token list
func (c *Client) TokenList(ctx context.Context) (*TokenList, error) {
	var list TokenList
	if err := c.getJSON(ctx, c.tokenListURL, &list); err != nil {
		return nil, fmt.Errorf("failed to get token list: %w", err)
	}
	return &list, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(bodyBytes)}
	}

	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage pulls a human readable message out of an error body
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var errorResp map[string]interface{}
	if err := json.Unmarshal(body, &errorResp); err == nil {
		for _, key := range []string{"message", "error"} {
			if message, ok := errorResp[key].(string); ok {
				return message
			}
		}
		if errs, ok := errorResp["errors"]; ok {
			return fmt.Sprintf("%v", errs)
		}
	}

	return strings.TrimSpace(string(body))
}
