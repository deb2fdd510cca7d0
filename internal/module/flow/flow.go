// Package flow drives the shared lifecycle of a user-initiated transaction:
// one loading notification while the pipeline runs, resolved in place to the
// terminal state, and a history record for every outcome that reached the
// chain. Screen services embed a Runner instead of repeating this.
package flow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stellarhub/defihub/internal/history"
	"github.com/stellarhub/defihub/internal/notify"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/internal/shared/apperr"
	"github.com/stellarhub/defihub/pkg/logger"
)

// Session exposes the active wallet address for history attribution.
type Session interface {
	Address() (string, error)
}

// Operation describes the action for notifications and history.
type Operation struct {
	Name        string
	Title       string
	AssetSymbol string
	Amount      string
}

// Runner owns the notification and history side effects of one operation.
type Runner struct {
	queue    *notify.Queue
	recorder history.Recorder
	session  Session
	logger   *logger.Logger
}

// NewRunner creates a flow runner
func NewRunner(queue *notify.Queue, recorder history.Recorder, session Session, log *logger.Logger) *Runner {
	return &Runner{queue: queue, recorder: recorder, session: session, logger: log}
}

// Run executes invoke under a loading notification and resolves it to the
// terminal state. The invoke error is returned unchanged so handlers can map
// it to a status code.
func (r *Runner) Run(ctx context.Context, op Operation, invoke func(context.Context) (*pipeline.Result, error)) (*pipeline.Result, error) {
	noteID := r.queue.Loading(op.Title, "Waiting for wallet confirmation")

	result, err := invoke(ctx)
	if err != nil {
		r.resolveFailure(ctx, noteID, op, err)
		return nil, err
	}

	r.queue.Resolve(noteID, notify.Update{
		Kind:        notify.KindSuccess,
		Title:       op.Title,
		Message:     "Transaction confirmed",
		TxHash:      result.Hash,
		AutoDismiss: notify.SuccessDismissAfter,
	})
	r.record(ctx, op, history.OutcomeSuccess, result.Hash, "")
	return result, nil
}

func (r *Runner) resolveFailure(ctx context.Context, noteID uuid.UUID, op Operation, err error) {
	message := "Something went wrong"
	txHash := ""
	if appErr := apperr.Get(err); appErr != nil {
		message = appErr.Message
		txHash = appErr.TxHash
	}

	switch kind := apperr.KindOf(err); kind {
	case apperr.KindInvalidAmount, apperr.KindValidation, apperr.KindHealthFactorTooLow:
		// Input errors belong inline on the form; the error in the
		// response body carries them. No toast.
		r.queue.Dismiss(noteID)
	case apperr.KindNetworkMismatch:
		// Standing warning until the wallet is back on the expected
		// network.
		r.queue.Resolve(noteID, notify.Update{
			Kind:    notify.KindWarning,
			Title:   op.Title,
			Message: message,
		})
	case apperr.KindConfirmationTimeout:
		// Fate unknown: keep a standing warning, never claim failure.
		r.queue.Resolve(noteID, notify.Update{
			Kind:    notify.KindWarning,
			Title:   op.Title,
			Message: message,
			TxHash:  txHash,
		})
		r.record(ctx, op, history.OutcomeUnknown, txHash, string(kind))
	case apperr.KindOnChainFailure:
		r.queue.Resolve(noteID, notify.Update{
			Kind:        notify.KindError,
			Title:       op.Title,
			Message:     message,
			TxHash:      txHash,
			AutoDismiss: notify.ErrorDismissAfter,
		})
		r.record(ctx, op, history.OutcomeFailed, txHash, string(kind))
	default:
		// Nothing reached the chain, so nothing goes into history.
		r.queue.Resolve(noteID, notify.Update{
			Kind:        notify.KindError,
			Title:       op.Title,
			Message:     message,
			AutoDismiss: notify.ErrorDismissAfter,
		})
	}
}

func (r *Runner) record(ctx context.Context, op Operation, outcome history.Outcome, txHash, errorKind string) {
	address, err := r.session.Address()
	if err != nil {
		return
	}
	rec := &history.Record{
		ID:            uuid.New(),
		WalletAddress: address,
		Operation:     op.Name,
		AssetSymbol:   op.AssetSymbol,
		Amount:        op.Amount,
		Outcome:       outcome,
		TxHash:        txHash,
		ErrorKind:     errorKind,
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.recorder.Record(ctx, rec); err != nil {
		r.logger.WithError(err).Warn("failed to record submission history",
			"operation", op.Name, "outcome", string(outcome))
	}
}
