package portfolio

import (
	"context"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/history"
	"github.com/stellarhub/defihub/internal/prices"
	"github.com/stellarhub/defihub/pkg/config"
	"github.com/stellarhub/defihub/pkg/logger"
)

func testAddr(prefix string) string {
	return prefix + strings.Repeat("A", 56-len(prefix))
}

type stubHub struct {
	position *contract.UserPosition
	health   *contract.HealthStatus
}

func (s *stubHub) UserPosition(ctx context.Context) (*contract.UserPosition, error) {
	return s.position, nil
}

func (s *stubHub) HealthStatus(ctx context.Context) (*contract.HealthStatus, error) {
	return s.health, nil
}

type staticSession struct{}

func (staticSession) Address() (string, error) { return "GWALLET", nil }

func testRegistry(t *testing.T) *config.AssetRegistry {
	t.Helper()
	yaml := `
assets:
  - address: native
    symbol: XLM
    decimals: 7
    collateral_factor_bps: 7000
  - address: ` + testAddr("CUSDC") + `
    symbol: USDC
    decimals: 6
    collateral_factor_bps: 8500
  - address: ` + testAddr("CBLND") + `
    symbol: BLND
    decimals: 7
    collateral_factor_bps: 6500
`
	registry, err := config.ParseAssets([]byte(yaml))
	require.NoError(t, err)
	return registry
}

func TestService_Overview(t *testing.T) {
	h := &stubHub{
		position: &contract.UserPosition{
			Supplied: map[string]*big.Int{
				testAddr("CUSDC"): big.NewInt(250_000_000), // 250 USDC
				"native":          big.NewInt(50_000_000),  // 5 XLM
			},
			Borrowed:      map[string]*big.Int{},
			Staked:        map[string]*big.Int{testAddr("CBLND"): big.NewInt(100_000_000)}, // 10 BLND
			RewardsEarned: big.NewInt(5_000_000),                                           // 0.5 BLND
		},
		health: &contract.HealthStatus{
			HealthFactorBps:      14500,
			TotalCollateralValue: big.NewInt(25_550_000_000), // 255.50 USD
			TotalBorrowedValue:   big.NewInt(0),
		},
	}
	fixture := prices.NewFixture()
	fixture.SetPrice("XLM", big.NewInt(10_000_000)) // 0.10 USD

	svc := NewService(h, testRegistry(t), fixture, history.NewMemoryRecorder(), staticSession{}, logger.NewDefault("test"))

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	require.Len(t, overview.Supplied, 2)
	// Rows come back sorted by symbol.
	assert.Equal(t, "USDC", overview.Supplied[0].Symbol)
	assert.Equal(t, "250", overview.Supplied[0].Amount)
	assert.Equal(t, "250", overview.Supplied[0].ValueUSD)
	assert.Equal(t, "XLM", overview.Supplied[1].Symbol)
	assert.Equal(t, "5", overview.Supplied[1].Amount)
	assert.Equal(t, "0.5", overview.Supplied[1].ValueUSD)

	require.Len(t, overview.Staked, 1)
	assert.Equal(t, "BLND", overview.Staked[0].Symbol)
	assert.Equal(t, "10", overview.Staked[0].Amount)

	assert.Equal(t, "0.5", overview.RewardsEarned)
	assert.Equal(t, int64(14500), overview.HealthFactorBps)
	assert.Equal(t, "255.5", overview.TotalCollateralUSD)
	assert.Equal(t, "0", overview.TotalBorrowedUSD)
}

func TestService_Overview_SkipsUnknownAssets(t *testing.T) {
	h := &stubHub{
		position: &contract.UserPosition{
			Supplied:      map[string]*big.Int{testAddr("CWHO"): big.NewInt(1)},
			Borrowed:      map[string]*big.Int{},
			Staked:        map[string]*big.Int{},
			RewardsEarned: big.NewInt(0),
		},
		health: &contract.HealthStatus{
			TotalCollateralValue: big.NewInt(0),
			TotalBorrowedValue:   big.NewInt(0),
		},
	}
	svc := NewService(h, testRegistry(t), prices.NewFixture(), history.NewMemoryRecorder(), staticSession{}, logger.NewDefault("test"))

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Empty(t, overview.Supplied)
}

func TestService_History(t *testing.T) {
	recorder := history.NewMemoryRecorder()
	for i := 0; i < 3; i++ {
		require.NoError(t, recorder.Record(context.Background(), &history.Record{
			ID:            uuid.New(),
			WalletAddress: "GWALLET",
			Operation:     "stake",
			Outcome:       history.OutcomeSuccess,
			CreatedAt:     time.Now().UTC(),
		}))
	}
	require.NoError(t, recorder.Record(context.Background(), &history.Record{
		ID:            uuid.New(),
		WalletAddress: "GOTHER",
		Operation:     "swap",
		Outcome:       history.OutcomeSuccess,
		CreatedAt:     time.Now().UTC(),
	}))

	svc := NewService(&stubHub{}, testRegistry(t), prices.NewFixture(), recorder, staticSession{}, logger.NewDefault("test"))

	records, err := svc.History(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, "GWALLET", rec.WalletAddress)
	}
}
