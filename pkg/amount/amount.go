// Package amount converts between human-readable decimal strings and the
// fixed-point base-unit integers the hub contract expects. All contract
// amount arguments are u128, so conversions are done with string math on
// big.Int; floats never enter the picture.
package amount

import (
	"errors"
	"math/big"
	"strings"
)

var (
	// ErrInvalidAmount reports an input that is not a non-negative finite
	// decimal number.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountOverflow reports a base-unit amount that does not fit in u128.
	ErrAmountOverflow = errors.New("amount exceeds uint128 range")
)

// maxUint128 = 2^128 - 1
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// ToBaseUnits converts a human-readable amount string to base units.
// "1.5" with 8 decimals -> 150000000. Fractional digits beyond the asset's
// precision are truncated toward zero, never rounded up.
func ToBaseUnits(amountStr string, decimals int) (*big.Int, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return nil, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return nil, ErrInvalidAmount
	}

	intPart, decPart, found := strings.Cut(s, ".")
	if found && decPart == "" && intPart == "" {
		return nil, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) || (decPart != "" && !isDigits(decPart)) {
		return nil, ErrInvalidAmount
	}

	// Pad or truncate the fractional part to the asset's precision
	if len(decPart) < decimals {
		decPart = decPart + strings.Repeat("0", decimals-len(decPart))
	} else if len(decPart) > decimals {
		decPart = decPart[:decimals]
	}

	combined := strings.TrimLeft(intPart+decPart, "0")
	if combined == "" {
		combined = "0"
	}

	result, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}
	if result.Cmp(maxUint128) > 0 {
		return nil, ErrAmountOverflow
	}
	return result, nil
}

// FromBaseUnits converts base units back to a human-readable string with at
// most decimals fractional digits. 150000000 with 8 decimals -> "1.5".
func FromBaseUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	str := amount.String()
	if decimals == 0 {
		return str
	}

	for len(str) <= decimals {
		str = "0" + str
	}

	pos := len(str) - decimals
	result := str[:pos] + "." + str[pos:]

	result = strings.TrimRight(result, "0")
	result = strings.TrimRight(result, ".")
	if result == "" {
		return "0"
	}
	return result
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
