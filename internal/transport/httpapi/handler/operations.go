package handler

import (
	"encoding/json"
	"net/http"

	"github.com/stellarhub/defihub/internal/module/borrow"
	"github.com/stellarhub/defihub/internal/module/stake"
	"github.com/stellarhub/defihub/internal/module/supply"
	"github.com/stellarhub/defihub/internal/module/swap"
	"github.com/stellarhub/defihub/internal/pipeline"
)

// OperationsHandler routes on-chain operation requests to the screen
// services. Each endpoint blocks until the submission pipeline resolves.
type OperationsHandler struct {
	stake  *stake.Service
	swap   *swap.Service
	supply *supply.Service
	borrow *borrow.Service
}

// NewOperationsHandler creates a new operations handler.
func NewOperationsHandler(st *stake.Service, sw *swap.Service, sp *supply.Service, br *borrow.Service) *OperationsHandler {
	return &OperationsHandler{stake: st, swap: sw, supply: sp, borrow: br}
}

// SubmissionResponse is the success body for every operation endpoint.
type SubmissionResponse struct {
	TxHash string `json:"tx_hash"`
	Ledger int64  `json:"ledger"`
}

// Stake handles POST /operations/stake
func (h *OperationsHandler) Stake(w http.ResponseWriter, r *http.Request) {
	var form stake.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.stake.Stake(r.Context(), form)
	respondSubmission(w, res, err)
}

// Unstake handles POST /operations/unstake
func (h *OperationsHandler) Unstake(w http.ResponseWriter, r *http.Request) {
	var form stake.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.stake.Unstake(r.Context(), form)
	respondSubmission(w, res, err)
}

// Swap handles POST /operations/swap
func (h *OperationsHandler) Swap(w http.ResponseWriter, r *http.Request) {
	var form swap.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.swap.Swap(r.Context(), form)
	respondSubmission(w, res, err)
}

// Supply handles POST /operations/lend/supply
func (h *OperationsHandler) Supply(w http.ResponseWriter, r *http.Request) {
	var form supply.SupplyForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.supply.Supply(r.Context(), form)
	respondSubmission(w, res, err)
}

// Withdraw handles POST /operations/lend/withdraw
func (h *OperationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var form supply.WithdrawForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.supply.Withdraw(r.Context(), form)
	respondSubmission(w, res, err)
}

// Borrow handles POST /operations/lend/borrow
func (h *OperationsHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var form borrow.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	res, err := h.borrow.Borrow(r.Context(), form)
	respondSubmission(w, res, err)
}

func respondSubmission(w http.ResponseWriter, res *pipeline.Result, err error) {
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, SubmissionResponse{TxHash: res.Hash, Ledger: res.Ledger}, http.StatusOK)
}
