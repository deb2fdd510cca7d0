package wallet

import (
	"context"
	"sync"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/pkg/logger"
)

// Manager owns the active wallet session. It is constructed once by the
// application context and injected everywhere a session is needed; there is
// no package-level instance. All session mutations happen under one mutex,
// so a snapshot never exposes a partial update.
type Manager struct {
	bridges         map[string]Bridge
	expectedNetwork string
	logger          *logger.Logger

	mu          sync.Mutex
	session     Session
	active      Bridge
	subscribers map[int]chan Session
	nextSubID   int
}

// NewManager creates a session manager over the given bridges.
// expectedNetwork is the application's configured network passphrase.
func NewManager(bridges []Bridge, expectedNetwork string, log *logger.Logger) *Manager {
	byKind := make(map[string]Bridge, len(bridges))
	for _, b := range bridges {
		byKind[b.Kind()] = b
	}
	return &Manager{
		bridges:         byKind,
		expectedNetwork: expectedNetwork,
		logger:          log.WithField("component", "wallet"),
		session:         Session{Status: StatusDisconnected},
		subscribers:     make(map[int]chan Session),
	}
}

// Session returns the current session snapshot.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Connect establishes a session through the named bridge. It suspends until
// the backend's user interaction completes. On any failure the session
// returns to disconnected and the bridge's sentinel error is passed through.
func (m *Manager) Connect(ctx context.Context, kind string) (Session, error) {
	bridge, ok := m.bridges[kind]
	if !ok {
		return Session{Status: StatusDisconnected}, ErrWalletNotInstalled
	}
	if !bridge.Available(ctx) {
		return Session{Status: StatusDisconnected}, ErrWalletNotInstalled
	}

	m.transition(Session{Status: StatusConnecting, WalletKind: kind})

	address, networkID, err := bridge.Connect(ctx)
	if err != nil {
		m.logger.Warn("wallet connect failed", "kind", kind, "error", err)
		session := Session{Status: StatusDisconnected}
		m.transition(session)
		return session, err
	}

	session := Session{
		Status:          StatusConnected,
		Address:         address,
		NetworkID:       networkID,
		WalletKind:      kind,
		NetworkMismatch: networkID != m.expectedNetwork,
	}

	m.mu.Lock()
	m.active = bridge
	m.mu.Unlock()
	m.transition(session)

	if session.NetworkMismatch {
		m.logger.Warn("wallet network mismatch",
			"wallet_network", networkID, "expected_network", m.expectedNetwork)
	}
	m.logger.Info("wallet connected", "kind", kind, "address", address)
	return session, nil
}

// Address returns the connected account address.
func (m *Manager) Address() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Status != StatusConnected {
		return "", ErrNotConnected
	}
	return m.session.Address, nil
}

// Network returns the wallet's active network identifier.
func (m *Manager) Network() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.Status != StatusConnected {
		return "", ErrNotConnected
	}
	return m.session.NetworkID, nil
}

// Mismatched reports the standing network-mismatch condition.
func (m *Manager) Mismatched() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Status == StatusConnected && m.session.NetworkMismatch
}

// Sign passes the envelope to the active bridge. Suspends while the backend
// prompts the user.
func (m *Manager) Sign(ctx context.Context, envelope string) (contract.SignedEnvelope, error) {
	m.mu.Lock()
	bridge := m.active
	connected := m.session.Status == StatusConnected
	m.mu.Unlock()

	if !connected || bridge == nil {
		return "", ErrNotConnected
	}
	return bridge.Sign(ctx, envelope)
}

// Disconnect clears the session immediately regardless of prior state.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	bridge := m.active
	m.active = nil
	m.mu.Unlock()

	if bridge != nil {
		bridge.Disconnect()
	}
	m.transition(Session{Status: StatusDisconnected})
	m.logger.Info("wallet disconnected")
}

// Subscribe registers for session transitions. The returned cancel func
// must be called to release the subscription. Slow subscribers miss
// intermediate states rather than blocking the session.
func (m *Manager) Subscribe() (<-chan Session, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSubID
	m.nextSubID++
	ch := make(chan Session, 8)
	m.subscribers[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub, ok := m.subscribers[id]; ok {
			delete(m.subscribers, id)
			close(sub)
		}
	}
	return ch, cancel
}

// transition atomically swaps the session and notifies subscribers. Sends
// stay under the lock so they are serialized against cancel's close of the
// channel; slow subscribers miss the state rather than blocking.
func (m *Manager) transition(next Session) {
	m.mu.Lock()
	m.session = next
	for _, ch := range m.subscribers {
		select {
		case ch <- next:
		default:
		}
	}
	m.mu.Unlock()
}
