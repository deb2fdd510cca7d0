// Package dia is a client for the DIA price oracle's REST API. Prices come
// back as 8-decimal fixed-point USD integers; quotes older than the
// staleness window are refused rather than served.
package dia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/stellarhub/defihub/pkg/logger"
)

const (
	defaultBaseURL = "https://api.diadata.org/v1"
	requestTimeout = 15 * time.Second

	// maxQuoteAge mirrors the hub contract's oracle staleness policy.
	maxQuoteAge = time.Hour
)

// Client is an HTTP client for the DIA REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
	now        func() time.Time
}

// NewClient creates a new DIA API client
func NewClient(log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: defaultBaseURL,
		logger:  log.WithField("component", "dia"),
		now:     time.Now,
	}
}

// SetBaseURL overrides the default base URL (useful for testing)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Quotation is one DIA price quote.
type Quotation struct {
	Symbol string      `json:"Symbol"`
	Name   string      `json:"Name"`
	Price  json.Number `json:"Price"`
	Time   time.Time   `json:"Time"`
}

// PriceUSD implements the prices.Source interface: fetches the current
// quote for a symbol and converts it to 8-decimal fixed point.
func (c *Client) PriceUSD(ctx context.Context, symbol string) (*big.Int, error) {
	reqURL := fmt.Sprintf("%s/quotation/%s", c.baseURL, symbol)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("DIA API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var quote Quotation
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("failed to decode DIA response: %w", err)
	}

	if age := c.now().Sub(quote.Time); age > maxQuoteAge {
		return nil, fmt.Errorf("DIA quote for %s is stale: %s old", symbol, age.Round(time.Second))
	}

	price, err := toFixedPoint(quote.Price)
	if err != nil {
		return nil, fmt.Errorf("invalid DIA price for %s: %w", symbol, err)
	}

	c.logger.Debug("price fetched", "symbol", symbol, "duration_ms", time.Since(start).Milliseconds())
	return price, nil
}

// toFixedPoint converts a decimal price to an 8-decimal integer without
// going through float64.
func toFixedPoint(num json.Number) (*big.Int, error) {
	rat, ok := new(big.Rat).SetString(num.String())
	if !ok {
		return nil, fmt.Errorf("not a decimal number: %q", num.String())
	}
	if rat.Sign() < 0 {
		return nil, fmt.Errorf("negative price: %q", num.String())
	}

	scaled := new(big.Rat).Mul(rat, new(big.Rat).SetInt64(100_000_000))
	// Truncate toward zero
	return new(big.Int).Quo(scaled.Num(), scaled.Denom()), nil
}
