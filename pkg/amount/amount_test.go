package amount

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits_WholeNumber(t *testing.T) {
	result, err := ToBaseUnits("1", 7)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10000000), result)
}

func TestToBaseUnits_WithDecimals(t *testing.T) {
	result, err := ToBaseUnits("1.5", 8)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(150000000), result)
}

func TestToBaseUnits_SevenDecimalSwapInput(t *testing.T) {
	// "10" of a 7-decimal asset is the canonical swap scenario
	result, err := ToBaseUnits("10", 7)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100000000), result)
}

func TestToBaseUnits_SmallestUnit(t *testing.T) {
	result, err := ToBaseUnits("0.0000001", 7)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), result)
}

func TestToBaseUnits_EighteenDecimals(t *testing.T) {
	result, err := ToBaseUnits("1.5", 18)
	require.NoError(t, err)
	expected, _ := new(big.Int).SetString("1500000000000000000", 10)
	assert.Equal(t, expected, result)
}

func TestToBaseUnits_TruncatesExcessPrecision(t *testing.T) {
	// 6-decimal asset: the 7th digit is dropped, not rounded
	result, err := ToBaseUnits("1.9999999", 6)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1999999), result)
}

func TestToBaseUnits_LeadingDot(t *testing.T) {
	result, err := ToBaseUnits(".5", 6)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(500000), result)
}

func TestToBaseUnits_Zero(t *testing.T) {
	result, err := ToBaseUnits("0", 7)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(0), result)
}

func TestToBaseUnits_Invalid(t *testing.T) {
	cases := []string{"", "abc", "1.2.3", "-1", "+1", "1e5", "1,5", ".", "1.5 XLM", "NaN", "Inf"}
	for _, in := range cases {
		_, err := ToBaseUnits(in, 7)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

func TestToBaseUnits_Uint128Overflow(t *testing.T) {
	// 2^128 exactly must be rejected
	over := new(big.Int).Lsh(big.NewInt(1), 128)
	_, err := ToBaseUnits(over.String(), 0)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	// 2^128-1 still fits
	max := new(big.Int).Sub(over, big.NewInt(1))
	result, err := ToBaseUnits(max.String(), 0)
	require.NoError(t, err)
	assert.Equal(t, max, result)
}

func TestFromBaseUnits(t *testing.T) {
	assert.Equal(t, "1.5", FromBaseUnits(big.NewInt(150000000), 8))
	assert.Equal(t, "0.0000001", FromBaseUnits(big.NewInt(1), 7))
	assert.Equal(t, "10", FromBaseUnits(big.NewInt(100000000), 7))
	assert.Equal(t, "0", FromBaseUnits(big.NewInt(0), 7))
	assert.Equal(t, "0", FromBaseUnits(nil, 7))
	assert.Equal(t, "42", FromBaseUnits(big.NewInt(42), 0))
}

func TestRoundTrip(t *testing.T) {
	// ToBaseUnits(FromBaseUnits(x)) == x for every supported precision
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(100000000),
		big.NewInt(9007199254740991), // max safe JS integer, a realistic ceiling
	}
	huge, _ := new(big.Int).SetString(strings.Repeat("9", 30), 10)
	values = append(values, huge)

	for _, decimals := range []int{6, 7, 8, 18} {
		for _, x := range values {
			human := FromBaseUnits(x, decimals)
			back, err := ToBaseUnits(human, decimals)
			require.NoError(t, err, "decimals=%d x=%s", decimals, x)
			assert.Equal(t, 0, back.Cmp(x), "decimals=%d x=%s human=%s", decimals, x, human)
		}
	}
}
