package supply

import (
	"strings"

	"github.com/stellarhub/defihub/internal/shared/apperr"
)

// SupplyForm is the lending screen's supply tab input.
type SupplyForm struct {
	Symbol       string `json:"symbol"`
	Amount       string `json:"amount"`
	AsCollateral bool   `json:"as_collateral"`
}

func (f *SupplyForm) Validate() error {
	return validateAssetAmount(f.Symbol, f.Amount)
}

// WithdrawForm is the lending screen's withdraw tab input.
type WithdrawForm struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

func (f *WithdrawForm) Validate() error {
	return validateAssetAmount(f.Symbol, f.Amount)
}

func validateAssetAmount(symbol, amount string) error {
	if strings.TrimSpace(symbol) == "" {
		return apperr.Validation("asset is required")
	}
	if strings.TrimSpace(amount) == "" {
		return apperr.New(apperr.KindInvalidAmount, "amount is required")
	}
	return nil
}
