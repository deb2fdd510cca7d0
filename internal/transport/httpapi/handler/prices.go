package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stellarhub/defihub/internal/prices"
	"github.com/stellarhub/defihub/pkg/amount"
	"github.com/stellarhub/defihub/pkg/config"
)

// PricesHandler serves the asset list and USD quotes.
type PricesHandler struct {
	registry *config.AssetRegistry
	source   prices.Source
}

// NewPricesHandler creates a new prices handler.
func NewPricesHandler(registry *config.AssetRegistry, source prices.Source) *PricesHandler {
	return &PricesHandler{registry: registry, source: source}
}

// AssetResponse describes one supported asset.
type AssetResponse struct {
	Symbol              string `json:"symbol"`
	Address             string `json:"address"`
	Decimals            int    `json:"decimals"`
	CollateralFactorBps int    `json:"collateral_factor_bps"`
}

// ListAssets handles GET /assets
func (h *PricesHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets := h.registry.All()
	out := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, AssetResponse{
			Symbol:              a.Symbol,
			Address:             a.Address,
			Decimals:            a.Decimals,
			CollateralFactorBps: a.CollateralFactorBps,
		})
	}
	respondJSON(w, out, http.StatusOK)
}

// PriceResponse is a USD quote for one asset.
type PriceResponse struct {
	Symbol   string `json:"symbol"`
	USDPrice string `json:"usd_price"`
}

// GetPrice handles GET /prices/{symbol}
func (h *PricesHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	asset, ok := h.registry.BySymbol(symbol)
	if !ok {
		respondError(w, "unsupported asset", http.StatusNotFound)
		return
	}

	price, err := h.source.PriceUSD(r.Context(), asset.Symbol)
	if err != nil {
		respondError(w, "price feed unavailable", http.StatusBadGateway)
		return
	}

	respondJSON(w, PriceResponse{
		Symbol:   asset.Symbol,
		USDPrice: amount.FromBaseUnits(price, prices.USDDecimals),
	}, http.StatusOK)
}
