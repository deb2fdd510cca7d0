// Package pipeline drives a built envelope through simulate, sign, submit
// and confirm. Order is strict: a failed simulation never reaches the
// signer, a rejected signature never reaches the network, and nothing in
// this package retries a submission on its own. A retry could duplicate a
// financial operation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/chain/soroban"
	"github.com/stellarhub/defihub/internal/shared/apperr"
	"github.com/stellarhub/defihub/internal/wallet"
	"github.com/stellarhub/defihub/pkg/logger"
)

const (
	// DefaultPollInterval is the spacing between confirmation polls.
	DefaultPollInterval = time.Second
	// DefaultPollAttempts bounds the confirmation wait (~30s).
	DefaultPollAttempts = 30
)

// Stage labels the pipeline's progress for logging and error context.
type Stage string

const (
	StageBuilt     Stage = "built"
	StageSimulated Stage = "simulated"
	StageSigned    Stage = "signed"
	StageSubmitted Stage = "submitted"
	StageConfirmed Stage = "confirmed"
)

// RPCClient is the slice of the Soroban RPC surface the pipeline consumes.
type RPCClient interface {
	SimulateTransaction(ctx context.Context, envelope string) (*soroban.SimulateResult, error)
	SendTransaction(ctx context.Context, signedEnvelope string) (*soroban.SendResult, error)
	GetTransaction(ctx context.Context, hash string) (*soroban.TransactionResult, error)
}

// Signer produces a signed envelope, suspending on user interaction.
type Signer interface {
	Sign(ctx context.Context, envelope string) (contract.SignedEnvelope, error)
}

// Result is the successful terminal outcome.
type Result struct {
	Hash   string
	Ledger int64
}

// Submitter runs envelopes through the submission pipeline.
type Submitter struct {
	rpc          RPCClient
	signer       Signer
	logger       *logger.Logger
	pollInterval time.Duration
	pollAttempts int
}

// NewSubmitter creates a submitter with the default polling policy
func NewSubmitter(rpc RPCClient, signer Signer, log *logger.Logger) *Submitter {
	return &Submitter{
		rpc:          rpc,
		signer:       signer,
		logger:       log.WithField("component", "pipeline"),
		pollInterval: DefaultPollInterval,
		pollAttempts: DefaultPollAttempts,
	}
}

// NewSubmitterWithPolicy overrides the polling interval and attempt ceiling
func NewSubmitterWithPolicy(rpc RPCClient, signer Signer, log *logger.Logger, interval time.Duration, attempts int) *Submitter {
	s := NewSubmitter(rpc, signer, log)
	s.pollInterval = interval
	s.pollAttempts = attempts
	return s
}

// Submit runs one envelope to a terminal outcome. Once the envelope has been
// accepted by the network the transaction cannot be withdrawn; abandoning
// the context mid-poll only abandons the wait, and the caller must treat the
// transaction's fate as unknown.
func (s *Submitter) Submit(ctx context.Context, envelope *contract.Envelope) (*Result, error) {
	encoded, err := envelope.Encode()
	if err != nil {
		return nil, apperr.Internal("failed to encode transaction", err)
	}

	log := s.logger.WithContext(ctx)
	log.Debug("pipeline started", "stage", StageBuilt, "source", envelope.SourceAccount)

	// Simulate before signing: a transaction guaranteed to fail on-chain
	// must never cost the user a wallet prompt.
	sim, err := s.rpc.SimulateTransaction(ctx, encoded)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindSimulationError, "transaction simulation could not be performed")
	}
	if sim.Failed() {
		log.Info("simulation predicted failure", "diagnostic", sim.Error)
		return nil, apperr.New(apperr.KindSimulationError, sim.Error)
	}
	log.Debug("pipeline advanced", "stage", StageSimulated)

	signed, err := s.signer.Sign(ctx, encoded)
	if err != nil {
		return nil, classifySigningError(err)
	}
	log.Debug("pipeline advanced", "stage", StageSigned)

	send, err := s.rpc.SendTransaction(ctx, string(signed))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindSubmissionRejected, "network refused the transaction")
	}
	if send.Status != soroban.SendStatusPending {
		detail := send.ErrorXDR
		if detail == "" {
			detail = fmt.Sprintf("submission status %s", send.Status)
		}
		return nil, apperr.New(apperr.KindSubmissionRejected, detail)
	}
	log.Info("transaction submitted", "stage", StageSubmitted, "hash", send.Hash)

	return s.awaitConfirmation(ctx, send.Hash)
}

// awaitConfirmation polls getTransaction at a fixed interval up to the
// attempt ceiling. A hash the chain has not seen yet is transient; reaching
// the ceiling means the fate is unknown, which is distinct from failure.
func (s *Submitter) awaitConfirmation(ctx context.Context, hash string) (*Result, error) {
	log := s.logger.WithContext(ctx).WithField("hash", hash)
	limiter := rate.NewLimiter(rate.Every(s.pollInterval), 1)

	for attempt := 1; attempt <= s.pollAttempts; attempt++ {
		if err := limiter.Wait(ctx); err != nil {
			return nil, apperr.Wrap(err, apperr.KindConfirmationTimeout,
				"confirmation wait abandoned; transaction fate unknown").WithTxHash(hash)
		}

		tx, err := s.rpc.GetTransaction(ctx, hash)
		if err != nil {
			// Transient: the poll itself failing does not decide the
			// transaction's fate.
			log.Warn("confirmation poll failed", "attempt", attempt, "error", err)
			continue
		}

		switch tx.Status {
		case soroban.TxStatusSuccess:
			log.Info("transaction confirmed", "stage", StageConfirmed, "ledger", tx.Ledger, "attempts", attempt)
			return &Result{Hash: hash, Ledger: tx.Ledger}, nil
		case soroban.TxStatusFailed:
			log.Info("transaction failed on-chain", "attempts", attempt)
			return nil, apperr.New(apperr.KindOnChainFailure, tx.ResultMeta).WithTxHash(hash)
		case soroban.TxStatusNotFound:
			log.Debug("transaction not yet visible", "attempt", attempt)
		default:
			log.Warn("unknown transaction status", "status", tx.Status, "attempt", attempt)
		}
	}

	log.Warn("confirmation attempts exhausted")
	return nil, apperr.New(apperr.KindConfirmationTimeout,
		fmt.Sprintf("transaction %s not confirmed after %d attempts; check an explorer, the outcome is unknown", hash, s.pollAttempts)).
		WithTxHash(hash)
}

func classifySigningError(err error) error {
	if errors.Is(err, wallet.ErrSigningRejected) || errors.Is(err, wallet.ErrUserRejected) {
		return apperr.Wrap(err, apperr.KindSigningRejected, "signing request was declined")
	}
	if errors.Is(err, wallet.ErrNotConnected) {
		return apperr.Wrap(err, apperr.KindNotConnected, "no wallet connected")
	}
	return apperr.Wrap(err, apperr.KindSigningFailed, "wallet could not sign the transaction")
}
