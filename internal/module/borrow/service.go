// Package borrow is the lending screen's borrow tab service.
package borrow

import (
	"context"
	"strings"

	"github.com/stellarhub/defihub/internal/module/flow"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/internal/shared/apperr"
	"github.com/stellarhub/defihub/pkg/logger"
)

// Hub is the slice of the operation facade this screen uses.
type Hub interface {
	Borrow(ctx context.Context, symbol, amount string) (*pipeline.Result, error)
}

// Form is the borrow tab input.
type Form struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

func (f *Form) Validate() error {
	if strings.TrimSpace(f.Symbol) == "" {
		return apperr.Validation("asset is required")
	}
	if strings.TrimSpace(f.Amount) == "" {
		return apperr.New(apperr.KindInvalidAmount, "amount is required")
	}
	return nil
}

// Service handles borrow screen actions
type Service struct {
	hub    Hub
	flow   *flow.Runner
	logger *logger.Logger
}

// NewService creates the borrow screen service
func NewService(h Hub, runner *flow.Runner, log *logger.Logger) *Service {
	return &Service{hub: h, flow: runner, logger: log.WithField("module", "borrow")}
}

// Borrow borrows an asset against supplied collateral. The health factor
// guard lives in the facade; a guard refusal is an inline form error, so
// the flow dismisses the loading entry and the refusal travels back in the
// response body instead of a toast.
func (s *Service) Borrow(ctx context.Context, form Form) (*pipeline.Result, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	op := flow.Operation{
		Name:        "borrow",
		Title:       "Borrow " + form.Symbol,
		AssetSymbol: form.Symbol,
		Amount:      form.Amount,
	}
	return s.flow.Run(ctx, op, func(ctx context.Context) (*pipeline.Result, error) {
		return s.hub.Borrow(ctx, form.Symbol, form.Amount)
	})
}
