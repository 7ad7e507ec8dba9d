package entity

import (
	"math/big"
	"strings"
)

// AccountData is the lending pool's view of an account, all values in the network's base currency smallest unit.
// It is read fresh on every query and never cached.
type AccountData struct {
	TotalCollateralBase         *big.Int `json:"totalCollateralBase"`
	TotalDebtBase               *big.Int `json:"totalDebtBase"`
	AvailableBorrowsBase        *big.Int `json:"availableBorrowsBase"`
	CurrentLiquidationThreshold *big.Int `json:"currentLiquidationThreshold"`
	LTV                         *big.Int `json:"ltv"`
	HealthFactor                *big.Int `json:"healthFactor"`
}

// PriceQuote is the latest answer of a price feed together with the feed's scale.
type PriceQuote struct {
	Answer    *big.Int `json:"answer"`
	Decimals  uint8    `json:"decimals"`
	RoundID   *big.Int `json:"roundId"`
	UpdatedAt uint64   `json:"updatedAt"`
}

// InterestRateMode selects the borrow rate model on the lending pool.
type InterestRateMode uint8

const (
	// StableRate is the stable borrow rate mode.
	StableRate InterestRateMode = 1
	// VariableRate is the variable borrow rate mode.
	VariableRate InterestRateMode = 2
)

// BigInt returns the mode as the uint256 argument the pool expects.
func (m InterestRateMode) BigInt() *big.Int {
	return new(big.Int).SetUint64(uint64(m))
}

func (m InterestRateMode) String() string {
	switch m {
	case StableRate:
		return "stable"
	case VariableRate:
		return "variable"
	default:
		return "unknown"
	}
}

// ParseInterestRateMode maps a config value to a mode. Empty selects the variable rate.
func ParseInterestRateMode(s string) (InterestRateMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "variable", "2":
		return VariableRate, true
	case "stable", "1":
		return StableRate, true
	default:
		return 0, false
	}
}
