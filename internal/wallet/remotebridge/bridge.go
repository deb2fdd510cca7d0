// Package remotebridge adapts a browser wallet extension into a
// wallet.Bridge. The extension lives in the user's browser, so Connect and
// Sign park a pending request that the frontend resolves through HTTP
// callbacks; the Go side suspends on a channel until the user approves,
// rejects, or the context expires.
package remotebridge

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/wallet"
	"github.com/stellarhub/defihub/pkg/logger"
)

// attachTTL bounds how long a frontend attachment counts as present
// without a heartbeat.
const attachTTL = 30 * time.Second

// RequestType distinguishes pending request flavors.
type RequestType string

const (
	RequestConnect RequestType = "connect"
	RequestSign    RequestType = "sign"
)

// PendingRequest is one outstanding wallet interaction awaiting the
// frontend.
type PendingRequest struct {
	ID       uuid.UUID   `json:"id"`
	Type     RequestType `json:"type"`
	Envelope string      `json:"envelope,omitempty"`
	Created  time.Time   `json:"created_at"`
}

type result struct {
	address   string
	networkID string
	signed    contract.SignedEnvelope
	err       error
}

type pending struct {
	req PendingRequest
	ch  chan result
}

// Bridge implements wallet.Bridge over HTTP callbacks from the frontend.
type Bridge struct {
	kind   string
	logger *logger.Logger

	mu       sync.Mutex
	pendings map[uuid.UUID]*pending
	lastSeen time.Time
}

// New creates a remote bridge for one wallet kind (e.g. "freighter").
func New(kind string, log *logger.Logger) *Bridge {
	return &Bridge{
		kind:     kind,
		logger:   log.WithField("component", "remotebridge").WithField("wallet_kind", kind),
		pendings: make(map[uuid.UUID]*pending),
	}
}

// Kind implements wallet.Bridge
func (b *Bridge) Kind() string { return b.kind }

// Heartbeat records that the frontend (and therefore the extension) is
// reachable. Called from the attach endpoint.
func (b *Bridge) Heartbeat() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastSeen = time.Now()
}

// Available implements wallet.Bridge: true while the frontend heartbeats.
func (b *Bridge) Available(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return time.Since(b.lastSeen) < attachTTL
}

// Connect implements wallet.Bridge. Suspends until the frontend resolves
// the request or ctx expires.
func (b *Bridge) Connect(ctx context.Context) (string, string, error) {
	p := b.enqueue(PendingRequest{Type: RequestConnect})
	defer b.remove(p.req.ID)

	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	case res := <-p.ch:
		if res.err != nil {
			return "", "", res.err
		}
		return res.address, res.networkID, nil
	}
}

// Sign implements wallet.Bridge. Suspends while the extension prompts the
// user with the envelope.
func (b *Bridge) Sign(ctx context.Context, envelope string) (contract.SignedEnvelope, error) {
	p := b.enqueue(PendingRequest{Type: RequestSign, Envelope: envelope})
	defer b.remove(p.req.ID)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-p.ch:
		if res.err != nil {
			return "", res.err
		}
		return res.signed, nil
	}
}

// Disconnect implements wallet.Bridge. Outstanding requests fail over to
// rejection so no caller stays parked.
func (b *Bridge) Disconnect() {
	b.mu.Lock()
	pendings := make([]*pending, 0, len(b.pendings))
	for _, p := range b.pendings {
		pendings = append(pendings, p)
	}
	b.pendings = make(map[uuid.UUID]*pending)
	b.mu.Unlock()

	for _, p := range pendings {
		p.ch <- result{err: wallet.ErrUserRejected}
	}
}

// Pending lists requests awaiting the frontend, oldest first.
func (b *Bridge) Pending() []PendingRequest {
	b.mu.Lock()
	defer b.mu.Unlock()

	reqs := make([]PendingRequest, 0, len(b.pendings))
	for _, p := range b.pendings {
		reqs = append(reqs, p.req)
	}
	for i := 1; i < len(reqs); i++ {
		for j := i; j > 0 && reqs[j].Created.Before(reqs[j-1].Created); j-- {
			reqs[j], reqs[j-1] = reqs[j-1], reqs[j]
		}
	}
	return reqs
}

// CompleteConnect resolves a pending connect request with the extension's
// account and network.
func (b *Bridge) CompleteConnect(id uuid.UUID, address, networkID string) bool {
	return b.resolve(id, RequestConnect, result{address: address, networkID: networkID})
}

// CompleteSign resolves a pending sign request with the signed blob.
func (b *Bridge) CompleteSign(id uuid.UUID, signed contract.SignedEnvelope) bool {
	return b.resolve(id, RequestSign, result{signed: signed})
}

// Reject resolves a pending request as refused by the user.
func (b *Bridge) Reject(id uuid.UUID) bool {
	b.mu.Lock()
	p, ok := b.pendings[id]
	if ok {
		delete(b.pendings, id)
	}
	b.mu.Unlock()
	if !ok {
		return false
	}

	switch p.req.Type {
	case RequestConnect:
		p.ch <- result{err: wallet.ErrUserRejected}
	default:
		p.ch <- result{err: wallet.ErrSigningRejected}
	}
	return true
}

func (b *Bridge) enqueue(req PendingRequest) *pending {
	req.ID = uuid.New()
	req.Created = time.Now()
	p := &pending{req: req, ch: make(chan result, 1)}

	b.mu.Lock()
	b.pendings[req.ID] = p
	b.mu.Unlock()

	b.logger.Debug("wallet request queued", "request_id", req.ID, "type", req.Type)
	return p
}

func (b *Bridge) remove(id uuid.UUID) {
	b.mu.Lock()
	delete(b.pendings, id)
	b.mu.Unlock()
}

func (b *Bridge) resolve(id uuid.UUID, want RequestType, res result) bool {
	b.mu.Lock()
	p, ok := b.pendings[id]
	if ok && p.req.Type == want {
		delete(b.pendings, id)
	}
	b.mu.Unlock()

	if !ok || p.req.Type != want {
		return false
	}
	p.ch <- res
	return true
}
