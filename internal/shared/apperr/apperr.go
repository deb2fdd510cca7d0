// Package apperr defines the normalized error surface of the application.
// Every facade-level failure reaching a transport handler is an *Error with
// a stable Kind; raw transport or SDK errors never cross that boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a stable error code exposed to clients.
type Kind string

const (
	// Input errors, detected before any network activity.
	KindInvalidAmount      Kind = "INVALID_AMOUNT"
	KindHealthFactorTooLow Kind = "HEALTH_FACTOR_TOO_LOW"
	KindValidation         Kind = "VALIDATION_ERROR"

	// Connectivity errors.
	KindWalletNotInstalled Kind = "WALLET_NOT_INSTALLED"
	KindNotConnected       Kind = "NOT_CONNECTED"
	KindNetworkMismatch    Kind = "NETWORK_MISMATCH"

	// Wallet-interaction outcomes. These are user choices, not system faults.
	KindUserRejected    Kind = "USER_REJECTED"
	KindSigningRejected Kind = "SIGNING_REJECTED"
	KindSigningFailed   Kind = "SIGNING_FAILED"

	// Simulation and on-chain failures. Never retried automatically.
	KindSimulationError     Kind = "SIMULATION_ERROR"
	KindSubmissionRejected  Kind = "SUBMISSION_REJECTED"
	KindOnChainFailure      Kind = "ONCHAIN_FAILURE"
	KindConfirmationTimeout Kind = "CONFIRMATION_TIMEOUT"

	// Transport-level kinds.
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// Error carries a kind, a user-displayable message and the underlying cause.
// TxHash is set on outcomes where a transaction reached the network, so
// unknown-fate and on-chain failures stay traceable on an explorer.
type Error struct {
	Kind    Kind
	Message string
	TxHash  string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error without a cause
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new Error wrapping a cause
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: err}
}

// WithTxHash attaches the submitted transaction's hash.
func (e *Error) WithTxHash(hash string) *Error {
	e.TxHash = hash
	return e
}

// Validation creates a validation error
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Internal wraps an unexpected failure
func Internal(message string, err error) *Error {
	return Wrap(err, KindInternal, message)
}

// NotFound creates a not found error
func NotFound(resource string) *Error {
	return New(KindNotFound, fmt.Sprintf("%s not found", resource))
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// KindOf reports the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// Get extracts an *Error from err, or nil.
func Get(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
