// Package swap is the swap screen service.
package swap

import (
	"context"
	"fmt"

	"github.com/stellarhub/defihub/internal/hub"
	"github.com/stellarhub/defihub/internal/module/flow"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/pkg/logger"
)

// Hub is the slice of the operation facade this screen uses.
type Hub interface {
	Swap(ctx context.Context, params hub.SwapParams) (*pipeline.Result, error)
}

// Service handles swap screen actions
type Service struct {
	hub    Hub
	flow   *flow.Runner
	logger *logger.Logger
}

// NewService creates the swap screen service
func NewService(h Hub, runner *flow.Runner, log *logger.Logger) *Service {
	return &Service{hub: h, flow: runner, logger: log.WithField("module", "swap")}
}

// Swap exchanges one asset for another.
func (s *Service) Swap(ctx context.Context, form Form) (*pipeline.Result, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	op := flow.Operation{
		Name:        "swap",
		Title:       fmt.Sprintf("Swap %s for %s", form.FromSymbol, form.ToSymbol),
		AssetSymbol: form.FromSymbol,
		Amount:      form.AmountIn,
	}
	return s.flow.Run(ctx, op, func(ctx context.Context) (*pipeline.Result, error) {
		return s.hub.Swap(ctx, hub.SwapParams{
			FromSymbol:   form.FromSymbol,
			ToSymbol:     form.ToSymbol,
			AmountIn:     form.AmountIn,
			MinAmountOut: form.MinAmountOut,
		})
	})
}
