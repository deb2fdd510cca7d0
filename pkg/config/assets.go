package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NativeMarker is the address placeholder for the chain's native asset (XLM).
const NativeMarker = "native"

// Asset describes one entry of the static asset registry. Immutable for the
// process lifetime.
type Asset struct {
	Address             string `yaml:"address"`
	Symbol              string `yaml:"symbol"`
	Decimals            int    `yaml:"decimals"`
	CollateralFactorBps int    `yaml:"collateral_factor_bps"`
}

// IsNative reports whether the asset is the chain's native asset.
func (a *Asset) IsNative() bool {
	return a.Address == NativeMarker
}

// AssetRegistry holds all supported assets with lookup by symbol and address.
type AssetRegistry struct {
	Assets []Asset `yaml:"assets"`

	bySymbol  map[string]*Asset
	byAddress map[string]*Asset
}

// LoadAssets loads the asset registry from a YAML file
func LoadAssets(path string) (*AssetRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read assets config file: %w", err)
	}
	return ParseAssets(data)
}

// ParseAssets parses and validates an asset registry from YAML bytes
func ParseAssets(data []byte) (*AssetRegistry, error) {
	var registry AssetRegistry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse assets config: %w", err)
	}

	registry.bySymbol = make(map[string]*Asset, len(registry.Assets))
	registry.byAddress = make(map[string]*Asset, len(registry.Assets))
	for i := range registry.Assets {
		asset := &registry.Assets[i]
		registry.bySymbol[strings.ToUpper(asset.Symbol)] = asset
		registry.byAddress[asset.Address] = asset
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}

	return &registry, nil
}

// Validate validates the asset registry
func (r *AssetRegistry) Validate() error {
	if len(r.Assets) == 0 {
		return fmt.Errorf("at least one asset must be configured")
	}

	seenSymbols := make(map[string]bool)
	seenAddresses := make(map[string]bool)
	for _, asset := range r.Assets {
		if asset.Symbol == "" {
			return fmt.Errorf("asset symbol is required for address %s", asset.Address)
		}
		if asset.Address == "" {
			return fmt.Errorf("asset address is required for symbol %s", asset.Symbol)
		}
		switch asset.Decimals {
		case 6, 7, 8, 18:
		default:
			return fmt.Errorf("unsupported decimals %d for asset %s", asset.Decimals, asset.Symbol)
		}
		if asset.CollateralFactorBps < 0 || asset.CollateralFactorBps > 10000 {
			return fmt.Errorf("collateral_factor_bps out of range for asset %s", asset.Symbol)
		}
		key := strings.ToUpper(asset.Symbol)
		if seenSymbols[key] {
			return fmt.Errorf("duplicate asset symbol %s", asset.Symbol)
		}
		if seenAddresses[asset.Address] {
			return fmt.Errorf("duplicate asset address %s", asset.Address)
		}
		seenSymbols[key] = true
		seenAddresses[asset.Address] = true
	}

	return nil
}

// BySymbol looks up an asset by symbol (case-insensitive)
func (r *AssetRegistry) BySymbol(symbol string) (*Asset, bool) {
	asset, ok := r.bySymbol[strings.ToUpper(symbol)]
	return asset, ok
}

// ByAddress looks up an asset by contract address or the native marker
func (r *AssetRegistry) ByAddress(address string) (*Asset, bool) {
	asset, ok := r.byAddress[address]
	return asset, ok
}

// All returns every configured asset
func (r *AssetRegistry) All() []Asset {
	return r.Assets
}
