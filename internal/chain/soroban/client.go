// Package soroban is a minimal JSON-RPC client for a Soroban RPC endpoint.
// It covers exactly the four methods the submission pipeline consumes:
// getAccount, simulateTransaction, sendTransaction and getTransaction.
package soroban

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/stellarhub/defihub/pkg/logger"
)

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 3
)

// Client is an HTTP client for a Soroban RPC endpoint
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
	reqID      atomic.Int64
}

// NewClient creates a new Soroban RPC client
func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: baseURL,
		logger:  log.WithField("component", "soroban"),
	}
}

// SetBaseURL overrides the RPC endpoint URL (useful for testing)
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// call performs a JSON-RPC request with retry on 429 responses.
// Backoff doubles per attempt (1s, 2s, 4s).
func (c *Client) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	req := &RPCRequest{
		JSONRPC: "2.0",
		ID:      int(c.reqID.Add(1)),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := time.Second
	for attempt := 0; attempt <= maxRetries; attempt++ {
		start := time.Now()
		c.logger.Debug("RPC request", "method", method, "attempt", attempt)

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("failed to execute request: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if attempt == maxRetries {
				return nil, &RateLimitError{
					RetryAfter: backoff,
					Message:    "Soroban RPC rate limit exceeded after retries",
				}
			}
			c.logger.Warn("rate limited, retrying", "method", method, "backoff_ms", backoff.Milliseconds())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
				continue
			}
		}

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
		}

		var rpcResp RPCResponse
		err = json.NewDecoder(resp.Body).Decode(&rpcResp)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}

		if rpcResp.Error != nil {
			return nil, rpcResp.Error
		}

		c.logger.Debug("RPC response", "method", method, "duration_ms", time.Since(start).Milliseconds())
		return rpcResp.Result, nil
	}

	return nil, fmt.Errorf("soroban RPC: exhausted retries")
}

// GetAccount fetches the source-account snapshot (sequence number) for an address
func (c *Client) GetAccount(ctx context.Context, address string) (*Account, error) {
	result, err := c.call(ctx, "getAccount", map[string]string{"address": address})
	if err != nil {
		return nil, fmt.Errorf("getAccount failed: %w", err)
	}

	var account Account
	if err := json.Unmarshal(result, &account); err != nil {
		return nil, fmt.Errorf("failed to parse account: %w", err)
	}
	return &account, nil
}

// SimulateTransaction dry-runs an unsigned envelope against current state
func (c *Client) SimulateTransaction(ctx context.Context, envelope string) (*SimulateResult, error) {
	result, err := c.call(ctx, "simulateTransaction", map[string]string{"transaction": envelope})
	if err != nil {
		return nil, fmt.Errorf("simulateTransaction failed: %w", err)
	}

	var sim SimulateResult
	if err := json.Unmarshal(result, &sim); err != nil {
		return nil, fmt.Errorf("failed to parse simulation result: %w", err)
	}
	return &sim, nil
}

// SendTransaction submits a signed envelope to the network
func (c *Client) SendTransaction(ctx context.Context, signedEnvelope string) (*SendResult, error) {
	result, err := c.call(ctx, "sendTransaction", map[string]string{"transaction": signedEnvelope})
	if err != nil {
		return nil, fmt.Errorf("sendTransaction failed: %w", err)
	}

	var send SendResult
	if err := json.Unmarshal(result, &send); err != nil {
		return nil, fmt.Errorf("failed to parse send result: %w", err)
	}
	return &send, nil
}

// GetTransaction queries the status of a submitted transaction by hash
func (c *Client) GetTransaction(ctx context.Context, hash string) (*TransactionResult, error) {
	result, err := c.call(ctx, "getTransaction", map[string]string{"hash": hash})
	if err != nil {
		return nil, fmt.Errorf("getTransaction failed: %w", err)
	}

	var tx TransactionResult
	if err := json.Unmarshal(result, &tx); err != nil {
		return nil, fmt.Errorf("failed to parse transaction result: %w", err)
	}
	return &tx, nil
}
