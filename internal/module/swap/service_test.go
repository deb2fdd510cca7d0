package swap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarhub/defihub/internal/history"
	"github.com/stellarhub/defihub/internal/hub"
	"github.com/stellarhub/defihub/internal/module/flow"
	"github.com/stellarhub/defihub/internal/notify"
	"github.com/stellarhub/defihub/internal/pipeline"
	"github.com/stellarhub/defihub/internal/shared/apperr"
	"github.com/stellarhub/defihub/pkg/logger"
)

type stubHub struct {
	calls int
	last  hub.SwapParams
	err   error
}

func (s *stubHub) Swap(ctx context.Context, params hub.SwapParams) (*pipeline.Result, error) {
	s.calls++
	s.last = params
	if s.err != nil {
		return nil, s.err
	}
	return &pipeline.Result{Hash: "cafebabe"}, nil
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

func TestService_Swap(t *testing.T) {
	svc, h, queue := newService(t)

	_, err := svc.Swap(context.Background(), Form{
		FromSymbol: "USDC", ToSymbol: "XLM", AmountIn: "25", MinAmountOut: "200",
	})
	require.NoError(t, err)
	require.Equal(t, 1, h.calls)
	assert.Equal(t, hub.SwapParams{
		FromSymbol: "USDC", ToSymbol: "XLM", AmountIn: "25", MinAmountOut: "200",
	}, h.last)

	list := queue.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Swap USDC for XLM", list[0].Title)
}

func TestService_FormValidation(t *testing.T) {
	tests := []struct {
		name string
		form Form
		kind apperr.Kind
	}{
		{"missing from", Form{ToSymbol: "XLM", AmountIn: "1"}, apperr.KindValidation},
		{"missing to", Form{FromSymbol: "USDC", AmountIn: "1"}, apperr.KindValidation},
		{"missing amount", Form{FromSymbol: "USDC", ToSymbol: "XLM"}, apperr.KindInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, h, _ := newService(t)
			_, err := svc.Swap(context.Background(), tt.form)
			assert.True(t, apperr.Is(err, tt.kind), "got %v", err)
			assert.Zero(t, h.calls)
		})
	}
}
