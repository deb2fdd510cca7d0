package borrow

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
	calls int
	err   error
}

func (s *stubHub) Borrow(ctx context.Context, symbol, amount string) (*pipeline.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &pipeline.Result{Hash: "cc"}, nil
}

type staticSession struct{}

func (staticSession) Address() (string, error) { return "GWALLET", nil }

func newService(t *testing.T) (*Service, *stubHub, *notify.Queue) {
	t.Helper()
	h := &stubHub{}
	queue := notify.NewQueue()
	runner := flow.NewRunner(queue, history.NewMemoryRecorder(), staticSession{}, logger.NewDefault("test"))
	return NewService(h, runner, logger.NewDefault("test")), h, queue
}

func TestService_Borrow(t *testing.T) {
	svc, h, queue := newService(t)

	_, err := svc.Borrow(context.Background(), Form{Symbol: "USDC", Amount: "100"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.calls)

	list := queue.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Borrow USDC", list[0].Title)
}

func TestService_HealthGuardRefusalIsInlineError(t *testing.T) {
	svc, h, queue := newService(t)
	h.err = apperr.New(apperr.KindHealthFactorTooLow,
		"borrowing this amount would leave the position too close to liquidation")

	_, err := svc.Borrow(context.Background(), Form{Symbol: "USDC", Amount: "100000"})
	assert.True(t, apperr.Is(err, apperr.KindHealthFactorTooLow))

	// The refusal belongs on the form, so the loading entry is dismissed
	// rather than resolved to an error toast.
	assert.Zero(t, queue.Len())
}
