// Package prices defines the read-side price feed seam. The live source is
// the DIA oracle gateway; the fixture source serves static development
// prices. The implementation is selected once at startup and never mixed
// per-call.
package prices

import (
	"context"
	"math/big"
)

// USDDecimals is the fixed-point precision of USD prices (DIA standard).
const USDDecimals = 8

// Source provides USD prices in 8-decimal fixed point, keyed by asset
// symbol.
type Source interface {
	PriceUSD(ctx context.Context, symbol string) (*big.Int, error)
}
