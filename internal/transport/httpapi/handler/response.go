package handler

import (
	"encoding/json"
	"net/http"

	"github.com/stellarhub/defihub/internal/shared/apperr"
)

// ErrorResponse represents an error response. TxHash is present when a
// transaction reached the network before the failure or timeout.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	TxHash string `json:"tx_hash,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a plain error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// respondAppError maps a normalized error to an HTTP status. Errors without
// a kind never leak their cause to the client.
func respondAppError(w http.ResponseWriter, err error) {
	appErr := apperr.Get(err)
	if appErr == nil {
		respondError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	respondJSON(w, ErrorResponse{
		Error:  appErr.Message,
		Code:   string(appErr.Kind),
		TxHash: appErr.TxHash,
	}, statusForKind(appErr.Kind))
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidAmount, apperr.KindValidation, apperr.KindWalletNotInstalled:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindNotConnected, apperr.KindNetworkMismatch, apperr.KindConflict,
		apperr.KindUserRejected, apperr.KindSigningRejected:
		return http.StatusConflict
	case apperr.KindHealthFactorTooLow, apperr.KindSimulationError,
		apperr.KindSubmissionRejected, apperr.KindOnChainFailure, apperr.KindSigningFailed:
		return http.StatusUnprocessableEntity
	case apperr.KindConfirmationTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
