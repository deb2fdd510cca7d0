package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validAssetsYAML = `
assets:
  - address: "GBBD47IF6LWK7P7MDEVSCWR7DPUWV3NY3DTQEVFL4NAT4AQH3ZLLFLA5"
    symbol: USDC
    decimals: 6
    collateral_factor_bps: 8500
  - address: "native"
    symbol: XLM
    decimals: 7
    collateral_factor_bps: 7000
`

func TestParseAssets_Valid(t *testing.T) {
	registry, err := ParseAssets([]byte(validAssetsYAML))
	require.NoError(t, err)
	assert.Len(t, registry.All(), 2)

	usdc, ok := registry.BySymbol("usdc")
	require.True(t, ok)
	assert.Equal(t, 6, usdc.Decimals)
	assert.Equal(t, 8500, usdc.CollateralFactorBps)
	assert.False(t, usdc.IsNative())

	xlm, ok := registry.ByAddress("native")
	require.True(t, ok)
	assert.Equal(t, "XLM", xlm.Symbol)
	assert.True(t, xlm.IsNative())
}

func TestParseAssets_UnknownLookup(t *testing.T) {
	registry, err := ParseAssets([]byte(validAssetsYAML))
	require.NoError(t, err)

	_, ok := registry.BySymbol("DOGE")
	assert.False(t, ok)
	_, ok = registry.ByAddress("GAAAA")
	assert.False(t, ok)
}

func TestParseAssets_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty", `assets: []`},
		{"duplicate symbol", `
assets:
  - {address: "A", symbol: USDC, decimals: 6, collateral_factor_bps: 8500}
  - {address: "B", symbol: usdc, decimals: 6, collateral_factor_bps: 8500}
`},
		{"duplicate address", `
assets:
  - {address: "A", symbol: USDC, decimals: 6, collateral_factor_bps: 8500}
  - {address: "A", symbol: USDT, decimals: 6, collateral_factor_bps: 8500}
`},
		{"bad decimals", `
assets:
  - {address: "A", symbol: USDC, decimals: 5, collateral_factor_bps: 8500}
`},
		{"collateral factor over range", `
assets:
  - {address: "A", symbol: USDC, decimals: 6, collateral_factor_bps: 10001}
`},
		{"missing symbol", `
assets:
  - {address: "A", decimals: 6, collateral_factor_bps: 8500}
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseAssets([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestShippedAssetsConfig(t *testing.T) {
	registry, err := LoadAssets("../../config/assets.yaml")
	require.NoError(t, err)

	xlm, ok := registry.BySymbol("XLM")
	require.True(t, ok)
	assert.True(t, xlm.IsNative())
	assert.Equal(t, 7, xlm.Decimals)

	blnd, ok := registry.BySymbol("BLND")
	require.True(t, ok)
	assert.Equal(t, 7, blnd.Decimals)
}
