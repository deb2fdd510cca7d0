// Package portfolio is the dashboard screen service: position overview with
// USD valuation, health metrics and past submission history.
package portfolio

import (
	"context"
	"math/big"
	"sort"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/history"
	"github.com/stellarhub/defihub/internal/module/flow"
	"github.com/stellarhub/defihub/internal/prices"
	"github.com/stellarhub/defihub/pkg/amount"
	"github.com/stellarhub/defihub/pkg/config"
	"github.com/stellarhub/defihub/pkg/logger"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Hub is the read slice of the operation facade this screen uses.
type Hub interface {
	UserPosition(ctx context.Context) (*contract.UserPosition, error)
	HealthStatus(ctx context.Context) (*contract.HealthStatus, error)
}

// Row is one asset line of the overview, amounts and values as display
// strings.
type Row struct {
	Symbol   string `json:"symbol"`
	Amount   string `json:"amount"`
	ValueUSD string `json:"value_usd,omitempty"`
}

// Overview is the dashboard snapshot.
type Overview struct {
	Supplied           []Row  `json:"supplied"`
	Borrowed           []Row  `json:"borrowed"`
	Staked             []Row  `json:"staked"`
	RewardsEarned      string `json:"rewards_earned"`
	HealthFactorBps    int64  `json:"health_factor_bps"`
	TotalCollateralUSD string `json:"total_collateral_usd"`
	TotalBorrowedUSD   string `json:"total_borrowed_usd"`
}

// Service assembles the dashboard screen
type Service struct {
	hub      Hub
	registry *config.AssetRegistry
	prices   prices.Source
	recorder history.Recorder
	session  flow.Session
	logger   *logger.Logger
}

// NewService creates the portfolio screen service
func NewService(h Hub, registry *config.AssetRegistry, priceSource prices.Source, recorder history.Recorder, session flow.Session, log *logger.Logger) *Service {
	return &Service{
		hub:      h,
		registry: registry,
		prices:   priceSource,
		recorder: recorder,
		session:  session,
		logger:   log.WithField("module", "portfolio"),
	}
}

// Overview fetches the position and health status and renders them for the
// dashboard. Assets the registry does not know are skipped with a warning
// rather than failing the whole screen.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	position, err := s.hub.UserPosition(ctx)
	if err != nil {
		return nil, err
	}
	health, err := s.hub.HealthStatus(ctx)
	if err != nil {
		return nil, err
	}

	// Stake amounts are reward-token balances; rewards use the same token.
	rewards := "0"
	if stakingAsset, ok := s.registry.BySymbol("BLND"); ok {
		rewards = amount.FromBaseUnits(position.RewardsEarned, stakingAsset.Decimals)
	}

	return &Overview{
		Supplied:           s.rows(ctx, position.Supplied),
		Borrowed:           s.rows(ctx, position.Borrowed),
		Staked:             s.rows(ctx, position.Staked),
		RewardsEarned:      rewards,
		HealthFactorBps:    health.HealthFactorBps,
		TotalCollateralUSD: amount.FromBaseUnits(health.TotalCollateralValue, prices.USDDecimals),
		TotalBorrowedUSD:   amount.FromBaseUnits(health.TotalBorrowedValue, prices.USDDecimals),
	}, nil
}

// History lists the caller's past submissions, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]history.Record, error) {
	address, err := s.session.Address()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.recorder.ListByWallet(ctx, address, limit)
}

func (s *Service) rows(ctx context.Context, amounts map[string]*big.Int) []Row {
	result := make([]Row, 0, len(amounts))
	for addr, amt := range amounts {
		asset, ok := s.registry.ByAddress(addr)
		if !ok {
			s.logger.Warn("position holds an unsupported asset", "address", addr)
			continue
		}
		row := Row{Symbol: asset.Symbol, Amount: amount.FromBaseUnits(amt, asset.Decimals)}
		if price, err := s.prices.PriceUSD(ctx, asset.Symbol); err == nil {
			value := new(big.Int).Mul(amt, price)
			value.Quo(value, pow10(asset.Decimals))
			row.ValueUSD = amount.FromBaseUnits(value, prices.USDDecimals)
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Symbol < result[j].Symbol })
	return result
}

func pow10(decimals int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}
