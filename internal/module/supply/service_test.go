package supply

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarhub/defihub/internal/history"
	"github.com/stellarhub/defihub/internal/module/flow"
	"github.com/stellarhub/defihub/internal/notify"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/internal/shared/apperr"
	"github.com/stellarhub/defihub/pkg/logger"
)

type stubHub struct {
	supplyCalls   int
	withdrawCalls int
	lastSymbol    string
	lastAmount    string
	asCollateral  bool
}

func (s *stubHub) Supply(ctx context.Context, symbol, amount string, asCollateral bool) (*pipeline.Result, error) {
	s.supplyCalls++
	s.lastSymbol, s.lastAmount, s.asCollateral = symbol, amount, asCollateral
	return &pipeline.Result{Hash: "aa"}, nil
}

func (s *stubHub) Withdraw(ctx context.Context, symbol, amount string) (*pipeline.Result, error) {
	s.withdrawCalls++
	s.lastSymbol, s.lastAmount = symbol, amount
	return &pipeline.Result{Hash: "bb"}, nil
}

type staticSession struct{}

func (staticSession) Address() (string, error) { return "GWALLET", nil }

func newService(t *testing.T) (*Service, *stubHub) {
	t.Helper()
	h := &stubHub{}
	runner := flow.NewRunner(notify.NewQueue(), history.NewMemoryRecorder(), staticSession{}, logger.NewDefault("test"))
	return NewService(h, runner, logger.NewDefault("test")), h
}

func TestService_Supply(t *testing.T) {
	svc, h := newService(t)

	_, err := svc.Supply(context.Background(), SupplyForm{Symbol: "USDC", Amount: "100", AsCollateral: true})
	require.NoError(t, err)
	assert.Equal(t, 1, h.supplyCalls)
	assert.Equal(t, "USDC", h.lastSymbol)
	assert.True(t, h.asCollateral)
}

func TestService_Withdraw(t *testing.T) {
	svc, h := newService(t)

	_, err := svc.Withdraw(context.Background(), WithdrawForm{Symbol: "XLM", Amount: "50"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.withdrawCalls)
	assert.Equal(t, "XLM", h.lastSymbol)
	assert.Equal(t, "50", h.lastAmount)
}

func TestService_Validation(t *testing.T) {
	svc, h := newService(t)

	_, err := svc.Supply(context.Background(), SupplyForm{Amount: "1"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Withdraw(context.Background(), WithdrawForm{Symbol: "XLM"})
	assert.True(t, apperr.Is(err, apperr.KindInvalidAmount))

	assert.Zero(t, h.supplyCalls)
	assert.Zero(t, h.withdrawCalls)
}
