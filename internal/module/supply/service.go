// Package supply is the lending screen's supply and withdraw service.
package supply

import (
	"context"

	"github.com/stellarhub/defihub/internal/module/flow"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/pkg/logger"
)

// Hub is the slice of the operation facade this screen uses.
type Hub interface {
	Supply(ctx context.Context, symbol, amount string, asCollateral bool) (*pipeline.Result, error)
	Withdraw(ctx context.Context, symbol, amount string) (*pipeline.Result, error)
}

// Service handles the supply and withdraw tabs
type Service struct {
	hub    Hub
	flow   *flow.Runner
	logger *logger.Logger
}

// NewService creates the supply screen service
func NewService(h Hub, runner *flow.Runner, log *logger.Logger) *Service {
	return &Service{hub: h, flow: runner, logger: log.WithField("module", "supply")}
}

// Supply deposits an asset into the lending pool.
func (s *Service) Supply(ctx context.Context, form SupplyForm) (*pipeline.Result, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	op := flow.Operation{
		Name:        "supply",
		Title:       "Supply " + form.Symbol,
		AssetSymbol: form.Symbol,
		Amount:      form.Amount,
	}
	return s.flow.Run(ctx, op, func(ctx context.Context) (*pipeline.Result, error) {
		return s.hub.Supply(ctx, form.Symbol, form.Amount, form.AsCollateral)
	})
}

// Withdraw removes a supplied asset from the lending pool.
func (s *Service) Withdraw(ctx context.Context, form WithdrawForm) (*pipeline.Result, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	op := flow.Operation{
		Name:        "withdraw",
		Title:       "Withdraw " + form.Symbol,
		AssetSymbol: form.Symbol,
		Amount:      form.Amount,
	}
	return s.flow.Run(ctx, op, func(ctx context.Context) (*pipeline.Result, error) {
		return s.hub.Withdraw(ctx, form.Symbol, form.Amount)
	})
}
