package hub

import (
	"context"
	"math"
	"math/big"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/shared/apperr"
	"github.com/stellarhub/defihub/pkg/config"
)

// HealthUnbounded marks a position with no outstanding debt.
const HealthUnbounded int64 = -1

const bpsScale = 10000

// projectedHealthFactorBps values both sides of the position in 8-decimal
// fixed-point USD, adds the requested borrow to the debt side, and returns
// the resulting health factor in basis points. Collateral is weighted by
// each asset's collateral factor. All arithmetic is integer; amounts never
// pass through floats.
func (f *Facade) projectedHealthFactorBps(ctx context.Context, position *contract.UserPosition, borrowAsset *config.Asset, borrowAmount *big.Int) (int64, error) {
	collateral := new(big.Int)
	for addr, amt := range position.Supplied {
		asset, ok := f.registry.ByAddress(addr)
		if !ok {
			return 0, apperr.Internal("position references an unsupported asset: "+addr, nil)
		}
		value, err := f.valueUSD(ctx, asset, amt)
		if err != nil {
			return 0, err
		}
		value.Mul(value, big.NewInt(int64(asset.CollateralFactorBps)))
		value.Quo(value, big.NewInt(bpsScale))
		collateral.Add(collateral, value)
	}

	borrowed := new(big.Int)
	for addr, amt := range position.Borrowed {
		asset, ok := f.registry.ByAddress(addr)
		if !ok {
			return 0, apperr.Internal("position references an unsupported asset: "+addr, nil)
		}
		value, err := f.valueUSD(ctx, asset, amt)
		if err != nil {
			return 0, err
		}
		borrowed.Add(borrowed, value)
	}

	newDebt, err := f.valueUSD(ctx, borrowAsset, borrowAmount)
	if err != nil {
		return 0, err
	}
	borrowed.Add(borrowed, newDebt)

	if borrowed.Sign() == 0 {
		return HealthUnbounded, nil
	}

	hf := new(big.Int).Mul(collateral, big.NewInt(bpsScale))
	hf.Quo(hf, borrowed)
	if !hf.IsInt64() {
		return math.MaxInt64, nil
	}
	return hf.Int64(), nil
}

// valueUSD converts a base-unit amount into 8-decimal USD, truncating.
func (f *Facade) valueUSD(ctx context.Context, asset *config.Asset, amt *big.Int) (*big.Int, error) {
	price, err := f.prices.PriceUSD(ctx, asset.Symbol)
	if err != nil {
		return nil, apperr.Internal("no price available for "+asset.Symbol, err)
	}
	value := new(big.Int).Mul(amt, price)
	return value.Quo(value, pow10(asset.Decimals)), nil
}

func pow10(decimals int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
