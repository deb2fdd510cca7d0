package swap

import (
	"strings"

	"github.com/stellarhub/defihub/internal/shared/apperr"
)

// Form is the swap screen input. MinAmountOut is optional; absence means no
// slippage floor.
type Form struct {
	FromSymbol   string `json:"from_symbol"`
	ToSymbol     string `json:"to_symbol"`
	AmountIn     string `json:"amount_in"`
	MinAmountOut string `json:"min_amount_out,omitempty"`
}

// Validate checks form-level requirements.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.FromSymbol) == "" || strings.TrimSpace(f.ToSymbol) == "" {
		return apperr.Validation("both swap assets are required")
	}
	if strings.TrimSpace(f.AmountIn) == "" {
		return apperr.New(apperr.KindInvalidAmount, "amount is required")
	}
	return nil
}
