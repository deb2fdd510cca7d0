package stake

import (
	"strings"

	"github.com/stellarhub/defihub/internal/shared/apperr"
)

// Form is the staking screen input. The same form serves stake and unstake.
type Form struct {
	Amount string `json:"amount"`
}

// Validate checks form-level requirements; amount syntax is the codec's job.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.Amount) == "" {
		return apperr.New(apperr.KindInvalidAmount, "amount is required")
	}
	return nil
}
