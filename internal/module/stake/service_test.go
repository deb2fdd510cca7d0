package stake

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
	stakeCalls   int
	unstakeCalls int
	lastAmount   string
	err          error
}

func (s *stubHub) Stake(ctx context.Context, amount string) (*pipeline.Result, error) {
	s.stakeCalls++
	s.lastAmount = amount
	if s.err != nil {
		return nil, s.err
	}
	return &pipeline.Result{Hash: "feedface"}, nil
}

func (s *stubHub) Unstake(ctx context.Context, amount string) (*pipeline.Result, error) {
	s.unstakeCalls++
	s.lastAmount = amount
	if s.err != nil {
		return nil, s.err
	}
	return &pipeline.Result{Hash: "feedface"}, nil
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

func TestService_Stake(t *testing.T) {
	svc, h, queue := newService(t)

	result, err := svc.Stake(context.Background(), Form{Amount: "10"})
	require.NoError(t, err)
	assert.Equal(t, "feedface", result.Hash)
	assert.Equal(t, 1, h.stakeCalls)
	assert.Equal(t, "10", h.lastAmount)

	list := queue.List()
	require.Len(t, list, 1)
	assert.Equal(t, notify.KindSuccess, list[0].Kind)
	assert.Equal(t, "Stake BLND", list[0].Title)
}

func TestService_Unstake(t *testing.T) {
	svc, h, _ := newService(t)

	_, err := svc.Unstake(context.Background(), Form{Amount: "3.5"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.unstakeCalls)
	assert.Equal(t, "3.5", h.lastAmount)
}

func TestService_EmptyAmountRejectedBeforeFacade(t *testing.T) {
	svc, h, queue := newService(t)

	_, err := svc.Stake(context.Background(), Form{Amount: "   "})
	assert.True(t, apperr.Is(err, apperr.KindInvalidAmount))
	assert.Zero(t, h.stakeCalls)
	assert.Zero(t, queue.Len(), "no notification for a form that never left the screen")
}

func TestService_FacadeErrorResolvesNotification(t *testing.T) {
	svc, h, queue := newService(t)
	h.err = apperr.New(apperr.KindSigningRejected, "signing request was declined")

	_, err := svc.Stake(context.Background(), Form{Amount: "10"})
	assert.True(t, apperr.Is(err, apperr.KindSigningRejected))

	list := queue.List()
	require.Len(t, list, 1)
	assert.Equal(t, notify.KindError, list[0].Kind)
}
