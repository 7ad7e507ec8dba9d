package utils

import (
	"math/big"
	"testing"

	"aave_borrower/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEtherRoundTrip(t *testing.T) {
	cases := []struct {
		in    string
		units string
	}{
		{"0.01", "10000000000000000"},
		{"0.02", "20000000000000000"},
		{"1", "1000000000000000000"},
		{"12.5", "12500000000000000000"},
		{"0.000000000000000001", "1"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			amount, err := ParseEther(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.units, amount.String())
			assert.Equal(t, tc.in, FormatEther(amount))
		})
	}
}

func TestParseUnitsNormalisesInput(t *testing.T) {
	amount, err := ParseUnits(" .50 ", 6)
	require.NoError(t, err)
	assert.Equal(t, "500000", amount.String())
	assert.Equal(t, "0.5", FormatUnits(amount, 6))

	amount, err = ParseUnits("-1.25", 2)
	require.NoError(t, err)
	assert.Equal(t, "-125", amount.String())
	assert.Equal(t, "-1.25", FormatUnits(amount, 2))
}

func TestParseUnitsRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", ".", "abc", "1.2.3", "1e18", "0.0000000000000000001"} {
		_, err := ParseEther(in)
		assert.ErrorIs(t, err, entity.ErrInvalidAmount, "input %q", in)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0", FormatUnits(nil, 18))
	assert.Equal(t, "42", FormatUnits(big.NewInt(42), 0))
	assert.Equal(t, "0.000042", FormatUnits(big.NewInt(42), 6))
	amount, _ := new(big.Int).SetString("12653125371438845997", 10)
	assert.Equal(t, "12.653125371438845997", FormatEther(amount))
}
