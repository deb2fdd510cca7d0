package soroban

import (
	"encoding/json"
	"time"
)

// JSON-RPC 2.0 request/response structures

// RPCRequest represents a JSON-RPC 2.0 request
type RPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// RPCResponse represents a JSON-RPC 2.0 response
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// Account is the source-account snapshot used for sequence numbers.
type Account struct {
	Address        string `json:"address"`
	SequenceNumber int64  `json:"sequenceNumber,string"`
}

// SimulateResult is the outcome of a transaction dry run. A present Error
// means the invocation would fail on-chain (contract revert, resource limit)
// and must never be signed.
type SimulateResult struct {
	Error           string          `json:"error,omitempty"`
	Result          json.RawMessage `json:"results,omitempty"`
	MinResourceFee  string          `json:"minResourceFee,omitempty"`
	LatestLedger    int64           `json:"latestLedger,omitempty"`
	DiagnosticEvent string          `json:"diagnosticEventsXdr,omitempty"`
}

// Failed reports whether the simulation predicts an on-chain failure.
func (r *SimulateResult) Failed() bool {
	return r.Error != ""
}

// Send statuses returned immediately by sendTransaction.
const (
	SendStatusPending = "PENDING"
	SendStatusError   = "ERROR"
)

// SendResult is the immediate acknowledgement of a submission.
type SendResult struct {
	Status   string `json:"status"`
	Hash     string `json:"hash"`
	ErrorXDR string `json:"errorResultXdr,omitempty"`
}

// Transaction statuses reported by getTransaction while polling.
const (
	TxStatusNotFound = "NOT_FOUND"
	TxStatusSuccess  = "SUCCESS"
	TxStatusFailed   = "FAILED"
)

// TransactionResult is one confirmation poll response. For FAILED
// transactions ResultMeta carries the chain's result metadata verbatim.
type TransactionResult struct {
	Status      string `json:"status"`
	Hash        string `json:"txHash"`
	Ledger      int64  `json:"ledger,omitempty"`
	CreatedAt   int64  `json:"createdAt,string,omitempty"`
	ResultXDR   string `json:"resultXdr,omitempty"`
	ResultMeta  string `json:"resultMetaXdr,omitempty"`
	ReturnValue json.RawMessage `json:"returnValue,omitempty"`
}

// RateLimitError represents a rate limit response from the RPC endpoint
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	return e.Message
}
