package contract

import (
	"encoding/json"
	"fmt"
	"math/big"
)

// UserPosition is the decoded result of get_user_position. Amounts are in
// the asset's own base units, keyed by asset address.
type UserPosition struct {
	Supplied      map[string]*big.Int
	Borrowed      map[string]*big.Int
	Staked        map[string]*big.Int
	RewardsEarned *big.Int
}

// HealthStatus is the decoded result of get_health_status. Values in basis
// points and USD base units respectively.
type HealthStatus struct {
	HealthFactorBps      int64
	TotalCollateralValue *big.Int
	TotalBorrowedValue   *big.Int
}

// rawPosition mirrors the contract's wire encoding. All fields are required;
// a missing field means the response shape changed and decoding must fail
// rather than propagate zero values.
type rawPosition struct {
	SuppliedAssets map[string]string `json:"supplied_assets"`
	BorrowedAssets map[string]string `json:"borrowed_assets"`
	StakedTokens   map[string]string `json:"staked_lp_tokens"`
	RewardsEarned  *string           `json:"rewards_earned"`
}

// DecodeUserPosition parses a get_user_position result, failing fast on
// shape mismatch.
func DecodeUserPosition(data json.RawMessage) (*UserPosition, error) {
	var raw rawPosition
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("user position: malformed response: %w", err)
	}
	if raw.SuppliedAssets == nil || raw.BorrowedAssets == nil || raw.StakedTokens == nil || raw.RewardsEarned == nil {
		return nil, fmt.Errorf("user position: response missing required fields")
	}

	supplied, err := decodeAmountMap(raw.SuppliedAssets, "supplied_assets")
	if err != nil {
		return nil, err
	}
	borrowed, err := decodeAmountMap(raw.BorrowedAssets, "borrowed_assets")
	if err != nil {
		return nil, err
	}
	staked, err := decodeAmountMap(raw.StakedTokens, "staked_lp_tokens")
	if err != nil {
		return nil, err
	}
	rewards, ok := new(big.Int).SetString(*raw.RewardsEarned, 10)
	if !ok {
		return nil, fmt.Errorf("user position: invalid rewards_earned %q", *raw.RewardsEarned)
	}

	return &UserPosition{
		Supplied:      supplied,
		Borrowed:      borrowed,
		Staked:        staked,
		RewardsEarned: rewards,
	}, nil
}

type rawHealth struct {
	HealthFactor         *int64  `json:"health_factor_bps"`
	TotalCollateralValue *string `json:"total_collateral_value"`
	TotalBorrowedValue   *string `json:"total_borrowed_value"`
}

// DecodeHealthStatus parses a get_health_status result, failing fast on
// shape mismatch.
func DecodeHealthStatus(data json.RawMessage) (*HealthStatus, error) {
	var raw rawHealth
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("health status: malformed response: %w", err)
	}
	if raw.HealthFactor == nil || raw.TotalCollateralValue == nil || raw.TotalBorrowedValue == nil {
		return nil, fmt.Errorf("health status: response missing required fields")
	}

	collateral, ok := new(big.Int).SetString(*raw.TotalCollateralValue, 10)
	if !ok {
		return nil, fmt.Errorf("health status: invalid total_collateral_value %q", *raw.TotalCollateralValue)
	}
	borrowed, ok := new(big.Int).SetString(*raw.TotalBorrowedValue, 10)
	if !ok {
		return nil, fmt.Errorf("health status: invalid total_borrowed_value %q", *raw.TotalBorrowedValue)
	}

	return &HealthStatus{
		HealthFactorBps:      *raw.HealthFactor,
		TotalCollateralValue: collateral,
		TotalBorrowedValue:   borrowed,
	}, nil
}

func decodeAmountMap(raw map[string]string, field string) (map[string]*big.Int, error) {
	result := make(map[string]*big.Int, len(raw))
	for addr, val := range raw {
		n, ok := new(big.Int).SetString(val, 10)
		if !ok {
			return nil, fmt.Errorf("user position: invalid %s amount %q for %s", field, val, addr)
		}
		result[addr] = n
	}
	return result, nil
}
