package service

import (
	"math/big"
	"testing"

	"aave_borrower/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	require.True(t, ok, s)
	return v
}

func TestBorrowCapacity(t *testing.T) {
	tests := []struct {
		name  string
		input CapacityInput
		want  string
	}{
		{
			name: "dai/eth feed, 18 decimal stable",
			input: CapacityInput{
				AvailableBorrowsBase: big.NewInt(8250000000000000),
				Quote:                entity.PriceQuote{Answer: big.NewInt(619412182360188), Decimals: 18},
				StableDecimals:       18,
				SafetyBps:            9500,
			},
			want: "12653125371438845997",
		},
		{
			name: "6 decimal stable",
			input: CapacityInput{
				AvailableBorrowsBase: big.NewInt(8250000000000000),
				Quote:                entity.PriceQuote{Answer: big.NewInt(619412182360188), Decimals: 18},
				StableDecimals:       6,
				SafetyBps:            9500,
			},
			want: "12653125",
		},
		{
			name: "scale below base decimals",
			input: CapacityInput{
				AvailableBorrowsBase: big.NewInt(8250000000000000),
				Quote:                entity.PriceQuote{Answer: big.NewInt(200000000000), Decimals: 8},
				StableDecimals:       6,
				SafetyBps:            9500,
			},
			want: "3",
		},
		{
			name: "nothing available",
			input: CapacityInput{
				AvailableBorrowsBase: big.NewInt(0),
				Quote:                entity.PriceQuote{Answer: big.NewInt(619412182360188), Decimals: 18},
				StableDecimals:       18,
				SafetyBps:            9500,
			},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BorrowCapacity(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Zero(t, mustBig(t, tt.want).Cmp(got))
		})
	}
}

func TestBorrowCapacityStaysBelowMargin(t *testing.T) {
	in := CapacityInput{
		AvailableBorrowsBase: big.NewInt(8250000000000000),
		Quote:                entity.PriceQuote{Answer: big.NewInt(619412182360188), Decimals: 18},
		StableDecimals:       18,
		SafetyBps:            9500,
	}
	got, err := BorrowCapacity(in)
	require.NoError(t, err)

	// converting back to base units must not exceed 95% of what was available
	back := new(big.Int).Mul(got, in.Quote.Answer)
	back.Quo(back, mustBig(t, "1000000000000000000"))
	limit := new(big.Int).Mul(in.AvailableBorrowsBase, big.NewInt(9500))
	limit.Quo(limit, big.NewInt(10000))
	assert.LessOrEqual(t, back.Cmp(limit), 0)
}

func TestBorrowCapacityErrors(t *testing.T) {
	quote := entity.PriceQuote{Answer: big.NewInt(619412182360188), Decimals: 18}
	available := big.NewInt(8250000000000000)

	_, err := BorrowCapacity(CapacityInput{AvailableBorrowsBase: available, Quote: quote, StableDecimals: 18, SafetyBps: 0})
	assert.ErrorIs(t, err, entity.ErrInvalidSafetyMargin)

	_, err = BorrowCapacity(CapacityInput{AvailableBorrowsBase: available, Quote: quote, StableDecimals: 18, SafetyBps: 10000})
	assert.ErrorIs(t, err, entity.ErrInvalidSafetyMargin)

	_, err = BorrowCapacity(CapacityInput{AvailableBorrowsBase: available, Quote: entity.PriceQuote{Answer: big.NewInt(0), Decimals: 18}, StableDecimals: 18, SafetyBps: 9500})
	assert.ErrorIs(t, err, entity.ErrNonPositiveQuote)

	_, err = BorrowCapacity(CapacityInput{AvailableBorrowsBase: available, Quote: entity.PriceQuote{Answer: big.NewInt(-5), Decimals: 18}, StableDecimals: 18, SafetyBps: 9500})
	assert.ErrorIs(t, err, entity.ErrNonPositiveQuote)

	_, err = BorrowCapacity(CapacityInput{AvailableBorrowsBase: available, Quote: quote, StableDecimals: 255, SafetyBps: 9500})
	assert.ErrorIs(t, err, entity.ErrAmountOverflow)

	huge := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = BorrowCapacity(CapacityInput{AvailableBorrowsBase: huge, Quote: quote, StableDecimals: 18, SafetyBps: 9500})
	assert.ErrorIs(t, err, entity.ErrAmountOverflow)
}
