package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarhub/defihub/internal/prices"
	"github.com/stellarhub/defihub/internal/transport/httpapi/handler"
	"github.com/stellarhub/defihub/pkg/config"
)

const pricesAssetsYAML = `
assets:
  - symbol: XLM
    address: native
    decimals: 7
    collateral_factor_bps: 7000
  - symbol: USDC
    address: CCW67TSZV3SSS2HXMBQ5JFGCKJNXKZM7UQUWUZPUTHXSTZLEO7SJMI75
    decimals: 6
    collateral_factor_bps: 5000
`

func newPricesRouter(t *testing.T) *chi.Mux {
	t.Helper()
	registry, err := config.ParseAssets([]byte(pricesAssetsYAML))
	require.NoError(t, err)
	h := handler.NewPricesHandler(registry, prices.NewFixture())

	r := chi.NewRouter()
	r.Get("/assets", h.ListAssets)
	r.Get("/prices/{symbol}", h.GetPrice)
	return r
}

func TestPricesHandler_ListAssets(t *testing.T) {
	router := newPricesRouter(t)

	rec := doRequest(router, http.MethodGet, "/assets", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var assets []handler.AssetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assets))
	require.Len(t, assets, 2)
	assert.Equal(t, "XLM", assets[0].Symbol)
	assert.Equal(t, 7000, assets[0].CollateralFactorBps)
}

func TestPricesHandler_GetPrice(t *testing.T) {
	router := newPricesRouter(t)

	rec := doRequest(router, http.MethodGet, "/prices/usdc", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.PriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "USDC", resp.Symbol)
	assert.Equal(t, "1", resp.USDPrice)
}

func TestPricesHandler_GetPrice_UnknownAsset(t *testing.T) {
	router := newPricesRouter(t)

	rec := doRequest(router, http.MethodGet, "/prices/DOGE", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
