package hub

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/shared/apperr"
)

func TestProjectedHealthFactor_NoDebtIsUnbounded(t *testing.T) {
	fx := newFacadeFixture(t, connectedManager(t, testNetwork))
	fx.prices.SetPrice("BTC", big.NewInt(0))

	position := &contract.UserPosition{
		Supplied: map[string]*big.Int{testAddr("CUSDC"): big.NewInt(1_000_000)},
		Borrowed: map[string]*big.Int{},
	}
	asset, ok := fx.facade.registry.BySymbol("BTC")
	require.True(t, ok)

	hf, err := fx.facade.projectedHealthFactorBps(context.Background(), position, asset, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, HealthUnbounded, hf)
}

func TestProjectedHealthFactor_WeightsCollateral(t *testing.T) {
	fx := newFacadeFixture(t, connectedManager(t, testNetwork))
	fx.prices.SetPrice("XLM", big.NewInt(10_000_000)) // 0.10 USD

	// 10000 XLM at 0.10 USD and a 70% collateral factor: 700 USD of
	// borrowing power against a 350 USD debt.
	position := &contract.UserPosition{
		Supplied: map[string]*big.Int{"native": big.NewInt(100_000_000_000)},
		Borrowed: map[string]*big.Int{},
	}
	usdc, ok := fx.facade.registry.BySymbol("USDC")
	require.True(t, ok)

	hf, err := fx.facade.projectedHealthFactorBps(context.Background(), position, usdc, big.NewInt(350_000_000))
	require.NoError(t, err)
	assert.Equal(t, int64(20000), hf)
}

func TestProjectedHealthFactor_UnknownPositionAsset(t *testing.T) {
	fx := newFacadeFixture(t, connectedManager(t, testNetwork))

	position := &contract.UserPosition{
		Supplied: map[string]*big.Int{testAddr("CWHO"): big.NewInt(1)},
		Borrowed: map[string]*big.Int{},
	}
	usdc, _ := fx.facade.registry.BySymbol("USDC")

	_, err := fx.facade.projectedHealthFactorBps(context.Background(), position, usdc, big.NewInt(1))
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}
