package service

import (
	"fmt"
	"math/big"

	"aave_borrower/internal/domain/entity"

	"github.com/holiman/uint256"
)

// BaseCurrencyDecimals is the scale of the pool's base-currency figures (ETH-denominated in v2).
const BaseCurrencyDecimals = 18

// bpsDenominator is 100% expressed in basis points.
const bpsDenominator = 10_000

// 10^77 is the largest power of ten that fits in 256 bits.
const maxPow10 = 77

// CapacityInput holds everything the borrow capacity depends on.
type CapacityInput struct {
	AvailableBorrowsBase *big.Int
	Quote                entity.PriceQuote
	StableDecimals       uint8
	SafetyBps            uint64
}

// BorrowCapacity converts the available-to-borrow figure into stable-token units, applying the safety margin.
//
//	borrow = floor(available * safetyBps * 10^(feedDecimals+stableDecimals-18) / (quote * 10000))
//
// The result is rounded down so the margin is never exceeded.
func BorrowCapacity(in CapacityInput) (*big.Int, error) {
	if in.SafetyBps == 0 || in.SafetyBps >= bpsDenominator {
		return nil, fmt.Errorf("%w: got %d", entity.ErrInvalidSafetyMargin, in.SafetyBps)
	}
	if in.Quote.Answer == nil || in.Quote.Answer.Sign() <= 0 {
		return nil, fmt.Errorf("%w: %v", entity.ErrNonPositiveQuote, in.Quote.Answer)
	}
	if in.AvailableBorrowsBase == nil || in.AvailableBorrowsBase.Sign() < 0 {
		return nil, fmt.Errorf("%w: available borrows %v", entity.ErrInvalidAmount, in.AvailableBorrowsBase)
	}

	available, overflow := uint256.FromBig(in.AvailableBorrowsBase)
	if overflow {
		return nil, fmt.Errorf("%w: available borrows", entity.ErrAmountOverflow)
	}
	quote, overflow := uint256.FromBig(in.Quote.Answer)
	if overflow {
		return nil, fmt.Errorf("%w: quote", entity.ErrAmountOverflow)
	}

	numFactor := uint256.NewInt(in.SafetyBps)
	denom, overflow := new(uint256.Int).MulOverflow(quote, uint256.NewInt(bpsDenominator))
	if overflow {
		return nil, fmt.Errorf("%w: quote", entity.ErrAmountOverflow)
	}

	exp := int(in.Quote.Decimals) + int(in.StableDecimals) - BaseCurrencyDecimals
	scale, err := pow10(abs(exp))
	if err != nil {
		return nil, err
	}
	if exp >= 0 {
		if numFactor, overflow = new(uint256.Int).MulOverflow(numFactor, scale); overflow {
			return nil, fmt.Errorf("%w: scale factor", entity.ErrAmountOverflow)
		}
	} else {
		if denom, overflow = new(uint256.Int).MulOverflow(denom, scale); overflow {
			return nil, fmt.Errorf("%w: scale divisor", entity.ErrAmountOverflow)
		}
	}

	result, overflow := new(uint256.Int).MulDivOverflow(available, numFactor, denom)
	if overflow {
		return nil, fmt.Errorf("%w: borrow amount", entity.ErrAmountOverflow)
	}
	return result.ToBig(), nil
}

func pow10(n int) (*uint256.Int, error) {
	if n > maxPow10 {
		return nil, fmt.Errorf("%w: 10^%d", entity.ErrAmountOverflow, n)
	}
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(n))), nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
