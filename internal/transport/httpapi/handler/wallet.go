package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/shared/apperr"
	"github.com/stellarhub/defihub/internal/wallet"
	"github.com/stellarhub/defihub/internal/wallet/remotebridge"
)

// WalletHandler exposes the wallet session and the remote bridge callbacks
// the wallet extension host uses to resolve connect and sign prompts.
type WalletHandler struct {
	manager *wallet.Manager
	bridge  *remotebridge.Bridge
}

// NewWalletHandler creates a new wallet handler.
func NewWalletHandler(manager *wallet.Manager, bridge *remotebridge.Bridge) *WalletHandler {
	return &WalletHandler{manager: manager, bridge: bridge}
}

// GetSession handles GET /wallet/session
func (h *WalletHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.manager.Session(), http.StatusOK)
}

// ConnectRequest is the connect request body.
type ConnectRequest struct {
	Kind string `json:"kind"`
}

// Connect handles POST /wallet/connect. The call suspends until the wallet
// host resolves the prompt through the bridge callbacks or the request
// context is cancelled.
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Kind == "" {
		respondError(w, "wallet kind is required", http.StatusBadRequest)
		return
	}

	session, err := h.manager.Connect(r.Context(), req.Kind)
	if err != nil {
		respondAppError(w, mapWalletError(err))
		return
	}
	respondJSON(w, session, http.StatusOK)
}

func mapWalletError(err error) error {
	switch {
	case errors.Is(err, wallet.ErrWalletNotInstalled):
		return apperr.Wrap(err, apperr.KindWalletNotInstalled, "wallet extension is not installed")
	case errors.Is(err, wallet.ErrUserRejected):
		return apperr.Wrap(err, apperr.KindUserRejected, "connection request was declined")
	default:
		return apperr.Internal("wallet connection failed", err)
	}
}

// Disconnect handles POST /wallet/disconnect
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.manager.Disconnect()
	respondJSON(w, h.manager.Session(), http.StatusOK)
}

// Heartbeat handles POST /wallet/bridge/heartbeat. The wallet host polls
// this to mark itself installed.
func (h *WalletHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	h.bridge.Heartbeat()
	w.WriteHeader(http.StatusNoContent)
}

// PendingRequests handles GET /wallet/bridge/requests
func (h *WalletHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	pending := h.bridge.Pending()
	if pending == nil {
		pending = []remotebridge.PendingRequest{}
	}
	respondJSON(w, pending, http.StatusOK)
}

// CompleteRequest is the bridge completion body. Connect completions carry
// address and network_id; sign completions carry signed_envelope.
type CompleteRequest struct {
	Address        string `json:"address,omitempty"`
	NetworkID      string `json:"network_id,omitempty"`
	SignedEnvelope string `json:"signed_envelope,omitempty"`
}

// Complete handles POST /wallet/bridge/requests/{id}/complete
func (h *WalletHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid request id", http.StatusBadRequest)
		return
	}

	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var resolved bool
	switch {
	case req.SignedEnvelope != "":
		resolved = h.bridge.CompleteSign(id, contract.SignedEnvelope(req.SignedEnvelope))
	case req.Address != "":
		resolved = h.bridge.CompleteConnect(id, req.Address, req.NetworkID)
	default:
		respondError(w, "completion requires address or signed_envelope", http.StatusBadRequest)
		return
	}

	if !resolved {
		respondError(w, "no pending request with this id", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reject handles POST /wallet/bridge/requests/{id}/reject
func (h *WalletHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, "invalid request id", http.StatusBadRequest)
		return
	}
	if !h.bridge.Reject(id) {
		respondError(w, "no pending request with this id", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
