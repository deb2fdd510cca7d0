// Package hub is the operation facade: one method per user-facing action,
// composing the amount codec, the invocation builder and the submission
// pipeline. All failures leave this package as normalized apperr errors.
package hub

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/chain/soroban"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/internal/prices"
	"github.com/stellarhub/defihub/internal/shared/apperr"
	"github.com/stellarhub/defihub/internal/wallet"
	"github.com/stellarhub/defihub/pkg/amount"
	"github.com/stellarhub/defihub/pkg/config"
	"github.com/stellarhub/defihub/pkg/logger"
)

// StakingSymbol is the reward token accepted by stake_blend.
const StakingSymbol = "BLND"

// swapDeadline is how far in the future a swap stays executable.
const swapDeadline = 5 * time.Minute

// RPC is the read slice of the Soroban RPC surface the facade consumes.
type RPC interface {
	GetAccount(ctx context.Context, address string) (*soroban.Account, error)
	SimulateTransaction(ctx context.Context, envelope string) (*soroban.SimulateResult, error)
}

// Submitter runs an envelope through the submission pipeline.
type Submitter interface {
	Submit(ctx context.Context, envelope *contract.Envelope) (*pipeline.Result, error)
}

// Facade exposes the hub contract operations.
type Facade struct {
	registry     *config.AssetRegistry
	builder      *contract.Builder
	rpc          RPC
	session      *wallet.Manager
	submitter    Submitter
	prices       prices.Source
	minHealthBps int64
	logger       *logger.Logger
	now          func() time.Time
}

// New creates the operation facade
func New(
	registry *config.AssetRegistry,
	builder *contract.Builder,
	rpc RPC,
	session *wallet.Manager,
	submitter Submitter,
	priceSource prices.Source,
	minHealthBps int64,
	log *logger.Logger,
) *Facade {
	return &Facade{
		registry:     registry,
		builder:      builder,
		rpc:          rpc,
		session:      session,
		submitter:    submitter,
		prices:       priceSource,
		minHealthBps: minHealthBps,
		logger:       log.WithField("component", "hub"),
		now:          time.Now,
	}
}

// SwapParams are the inputs of a token swap.
type SwapParams struct {
	FromSymbol   string
	ToSymbol     string
	AmountIn     string
	MinAmountOut string
}

// Stake stakes the reward token.
func (f *Facade) Stake(ctx context.Context, amountStr string) (*pipeline.Result, error) {
	_, baseAmount, err := f.resolveAmount(StakingSymbol, amountStr)
	if err != nil {
		return nil, err
	}
	user, err := f.precheck()
	if err != nil {
		return nil, err
	}
	return f.submit(ctx, user, contract.StakeRequest(user, baseAmount))
}

// Unstake unstakes the reward token.
func (f *Facade) Unstake(ctx context.Context, amountStr string) (*pipeline.Result, error) {
	_, baseAmount, err := f.resolveAmount(StakingSymbol, amountStr)
	if err != nil {
		return nil, err
	}
	user, err := f.precheck()
	if err != nil {
		return nil, err
	}
	return f.submit(ctx, user, contract.UnstakeRequest(user, baseAmount))
}

// Swap exchanges one supported asset for another.
func (f *Facade) Swap(ctx context.Context, params SwapParams) (*pipeline.Result, error) {
	if params.FromSymbol == params.ToSymbol {
		return nil, apperr.Validation("cannot swap an asset for itself")
	}
	from, amountIn, err := f.resolveAmount(params.FromSymbol, params.AmountIn)
	if err != nil {
		return nil, err
	}
	to, ok := f.registry.BySymbol(params.ToSymbol)
	if !ok {
		return nil, apperr.Validation("unsupported asset: " + params.ToSymbol)
	}

	// Minimum amount out may be zero: slippage tolerance is the caller's
	// policy, absence means "accept any price".
	minOut := big.NewInt(0)
	if params.MinAmountOut != "" {
		minOut, err = amount.ToBaseUnits(params.MinAmountOut, to.Decimals)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.KindInvalidAmount, "invalid minimum amount out")
		}
	}

	user, err := f.precheck()
	if err != nil {
		return nil, err
	}

	deadline := uint64(f.now().Add(swapDeadline).Unix())
	return f.submit(ctx, user, contract.SwapRequest(user, from.Address, to.Address, amountIn, minOut, deadline))
}

// Supply deposits an asset into the lending pool, optionally as collateral.
func (f *Facade) Supply(ctx context.Context, symbol, amountStr string, asCollateral bool) (*pipeline.Result, error) {
	asset, baseAmount, err := f.resolveAmount(symbol, amountStr)
	if err != nil {
		return nil, err
	}
	user, err := f.precheck()
	if err != nil {
		return nil, err
	}
	return f.submit(ctx, user, contract.SupplyRequest(user, asset.Address, baseAmount, asCollateral))
}

// Withdraw removes a supplied asset from the lending pool.
func (f *Facade) Withdraw(ctx context.Context, symbol, amountStr string) (*pipeline.Result, error) {
	asset, baseAmount, err := f.resolveAmount(symbol, amountStr)
	if err != nil {
		return nil, err
	}
	user, err := f.precheck()
	if err != nil {
		return nil, err
	}
	return f.submit(ctx, user, contract.WithdrawRequest(user, asset.Address, baseAmount))
}

// Borrow borrows an asset against supplied collateral. Before anything
// touches the network the projected health factor is checked against the
// configured minimum. The guard mirrors the contract's own enforcement,
// it does not replace it.
func (f *Facade) Borrow(ctx context.Context, symbol, amountStr string) (*pipeline.Result, error) {
	asset, baseAmount, err := f.resolveAmount(symbol, amountStr)
	if err != nil {
		return nil, err
	}
	user, err := f.precheck()
	if err != nil {
		return nil, err
	}

	position, err := f.userPosition(ctx, user)
	if err != nil {
		return nil, err
	}
	projected, err := f.projectedHealthFactorBps(ctx, position, asset, baseAmount)
	if err != nil {
		return nil, err
	}
	if projected >= 0 && projected < f.minHealthBps {
		f.logger.Info("borrow blocked by health factor guard",
			"projected_bps", projected, "minimum_bps", f.minHealthBps)
		return nil, apperr.New(apperr.KindHealthFactorTooLow,
			"borrowing this amount would leave the position too close to liquidation")
	}

	return f.submit(ctx, user, contract.BorrowRequest(user, asset.Address, baseAmount))
}

// UserPosition fetches the caller's position from the contract.
func (f *Facade) UserPosition(ctx context.Context) (*contract.UserPosition, error) {
	user, err := f.connectedAddress()
	if err != nil {
		return nil, err
	}
	return f.userPosition(ctx, user)
}

// HealthStatus fetches the caller's health metrics from the contract.
func (f *Facade) HealthStatus(ctx context.Context) (*contract.HealthStatus, error) {
	user, err := f.connectedAddress()
	if err != nil {
		return nil, err
	}
	raw, err := f.readQuery(ctx, user, contract.HealthStatusRequest(user))
	if err != nil {
		return nil, err
	}
	health, err := contract.DecodeHealthStatus(raw)
	if err != nil {
		return nil, apperr.Internal("contract returned an unexpected health status shape", err)
	}
	return health, nil
}

// resolveAmount validates presence and positivity, then converts through
// the codec. Zero and empty amounts never reach the builder.
func (f *Facade) resolveAmount(symbol, amountStr string) (*config.Asset, *big.Int, error) {
	asset, ok := f.registry.BySymbol(symbol)
	if !ok {
		return nil, nil, apperr.Validation("unsupported asset: " + symbol)
	}
	if amountStr == "" {
		return nil, nil, apperr.New(apperr.KindInvalidAmount, "amount is required")
	}
	baseAmount, err := amount.ToBaseUnits(amountStr, asset.Decimals)
	if err != nil {
		return nil, nil, apperr.Wrap(err, apperr.KindInvalidAmount, "amount must be a positive decimal number")
	}
	if baseAmount.Sign() == 0 {
		return nil, nil, apperr.New(apperr.KindInvalidAmount, "amount must be greater than zero")
	}
	return asset, baseAmount, nil
}

// precheck ensures a session exists and the wallet is on the right network.
func (f *Facade) precheck() (string, error) {
	user, err := f.connectedAddress()
	if err != nil {
		return "", err
	}
	if f.session.Mismatched() {
		return "", apperr.New(apperr.KindNetworkMismatch,
			"your wallet is on a different network; switch networks to continue")
	}
	return user, nil
}

func (f *Facade) connectedAddress() (string, error) {
	user, err := f.session.Address()
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindNotConnected, "connect a wallet first")
	}
	return user, nil
}

// submit fetches the sequence snapshot, builds the envelope and hands it to
// the pipeline.
func (f *Facade) submit(ctx context.Context, user string, req contract.OperationRequest) (*pipeline.Result, error) {
	account, err := f.rpc.GetAccount(ctx, user)
	if err != nil {
		return nil, apperr.Internal("failed to load account from the network", err)
	}
	envelope, err := f.builder.Build(req, user, account.SequenceNumber, f.now())
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindValidation, "could not build the transaction")
	}

	result, err := f.submitter.Submit(ctx, envelope)
	if err != nil {
		return nil, normalize(err)
	}
	return result, nil
}

// userPosition runs the read-only position query.
func (f *Facade) userPosition(ctx context.Context, user string) (*contract.UserPosition, error) {
	raw, err := f.readQuery(ctx, user, contract.UserPositionRequest(user))
	if err != nil {
		return nil, err
	}
	position, err := contract.DecodeUserPosition(raw)
	if err != nil {
		return nil, apperr.Internal("contract returned an unexpected position shape", err)
	}
	return position, nil
}

// readQuery executes a read-only contract call via simulation; nothing is
// signed or submitted.
func (f *Facade) readQuery(ctx context.Context, user string, req contract.OperationRequest) ([]byte, error) {
	account, err := f.rpc.GetAccount(ctx, user)
	if err != nil {
		return nil, apperr.Internal("failed to load account from the network", err)
	}
	envelope, err := f.builder.Build(req, user, account.SequenceNumber, f.now())
	if err != nil {
		return nil, apperr.Internal("could not build the read query", err)
	}
	encoded, err := envelope.Encode()
	if err != nil {
		return nil, apperr.Internal("could not encode the read query", err)
	}

	sim, err := f.rpc.SimulateTransaction(ctx, encoded)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindSimulationError, "read query failed")
	}
	if sim.Failed() {
		return nil, apperr.New(apperr.KindSimulationError, sim.Error)
	}
	return sim.Result, nil
}

// normalize maps stray sentinel errors into the apperr surface; pipeline
// errors already arrive normalized.
func normalize(err error) error {
	if apperr.Get(err) != nil {
		return err
	}
	switch {
	case errors.Is(err, wallet.ErrNotConnected):
		return apperr.Wrap(err, apperr.KindNotConnected, "connect a wallet first")
	case errors.Is(err, wallet.ErrSigningRejected), errors.Is(err, wallet.ErrUserRejected):
		return apperr.Wrap(err, apperr.KindSigningRejected, "signing request was declined")
	default:
		return apperr.Internal("operation failed", err)
	}
}
