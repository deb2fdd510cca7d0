// Package stake is the staking screen service: stake and unstake the reward
// token with the full notification lifecycle.
package stake

import (
	"context"

	"github.com/stellarhub/defihub/internal/hub"
	"github.com/stellarhub/defihub/internal/module/flow"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/pkg/logger"
)

// Hub is the slice of the operation facade this screen uses.
type Hub interface {
	Stake(ctx context.Context, amount string) (*pipeline.Result, error)
	Unstake(ctx context.Context, amount string) (*pipeline.Result, error)
}

// Service handles staking screen actions
type Service struct {
	hub    Hub
	flow   *flow.Runner
	logger *logger.Logger
}

// NewService creates the staking screen service
func NewService(h Hub, runner *flow.Runner, log *logger.Logger) *Service {
	return &Service{hub: h, flow: runner, logger: log.WithField("module", "stake")}
}

// Stake stakes the reward token.
func (s *Service) Stake(ctx context.Context, form Form) (*pipeline.Result, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	op := flow.Operation{
		Name:        "stake",
		Title:       "Stake " + hub.StakingSymbol,
		AssetSymbol: hub.StakingSymbol,
		Amount:      form.Amount,
	}
	return s.flow.Run(ctx, op, func(ctx context.Context) (*pipeline.Result, error) {
		return s.hub.Stake(ctx, form.Amount)
	})
}

// Unstake unstakes the reward token.
func (s *Service) Unstake(ctx context.Context, form Form) (*pipeline.Result, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	op := flow.Operation{
		Name:        "unstake",
		Title:       "Unstake " + hub.StakingSymbol,
		AssetSymbol: hub.StakingSymbol,
		Amount:      form.Amount,
	}
	return s.flow.Run(ctx, op, func(ctx context.Context) (*pipeline.Result, error) {
		return s.hub.Unstake(ctx, form.Amount)
	})
}
