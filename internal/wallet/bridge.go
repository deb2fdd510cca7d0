// Package wallet manages the single active wallet session and abstracts the
// physical signing backends behind one Bridge interface.
package wallet

import (
	"context"
	"errors"

	"github.com/stellarhub/defihub/internal/chain/contract"
)

// Sentinel errors returned by bridges. The manager and facade translate
// them into the normalized error surface.
var (
	ErrWalletNotInstalled = errors.New("wallet extension not installed")
	ErrUserRejected       = errors.New("user rejected the connection request")
	ErrSigningRejected    = errors.New("user rejected the signing request")
	ErrSigningFailed      = errors.New("wallet failed to sign the transaction")
	ErrNotConnected       = errors.New("no wallet connected")
)

// Status is the session state.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// Session is the mutable wallet session snapshot published to subscribers.
// Exactly one session is active at a time.
type Session struct {
	Status     Status `json:"status"`
	Address    string `json:"address,omitempty"`
	NetworkID  string `json:"network_id,omitempty"`
	WalletKind string `json:"wallet_kind,omitempty"`

	// NetworkMismatch is a standing warning: the wallet is on a different
	// network than the application. The session stays connected but
	// submissions are refused while it persists.
	NetworkMismatch bool `json:"network_mismatch,omitempty"`
}

// Bridge is one physical wallet backend. Connect and Sign suspend on user
// interaction; the context bounds how long the caller is willing to wait.
type Bridge interface {
	// Kind names the backend ("freighter", "localkey", ...).
	Kind() string
	// Available reports whether the backend can currently serve requests.
	Available(ctx context.Context) bool
	// Connect asks the backend for access and returns the account address
	// and active network identifier.
	Connect(ctx context.Context) (address, networkID string, err error)
	// Sign presents the encoded envelope to the user and returns the
	// signed blob.
	Sign(ctx context.Context, envelope string) (contract.SignedEnvelope, error)
	// Disconnect releases any backend-side session state. Always succeeds.
	Disconnect()
}
