package utils

import (
	"fmt"
	"math/big"
	"strings"

	"aave_borrower/internal/domain/entity"
)

// EtherDecimals is the scale of native currency and of the lending pool's base currency.
const EtherDecimals = 18

// ParseUnits converts a decimal string into its smallest-unit integer at the given scale.
// Example: value="0.01", decimals=18 => 10000000000000000
// More fractional digits than decimals is rejected rather than rounded.
func ParseUnits(value string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", entity.ErrInvalidAmount)
	}
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidAmount, value)
	}
	if !isDigits(intPart) || !isDigits(fracPart) {
		return nil, fmt.Errorf("%w: %q is not a decimal number", entity.ErrInvalidAmount, value)
	}
	fracPart = strings.TrimRight(fracPart, "0")
	if len(fracPart) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", entity.ErrInvalidAmount, value, decimals)
	}
	if intPart == "" {
		intPart = "0"
	}

	digits := intPart + fracPart + strings.Repeat("0", int(decimals)-len(fracPart))
	amount, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidAmount, value)
	}
	if negative {
		amount.Neg(amount)
	}
	return amount, nil
}

// ParseEther is ParseUnits at the native currency scale.
func ParseEther(value string) (*big.Int, error) {
	return ParseUnits(value, EtherDecimals)
}

// FormatUnits converts a smallest-unit amount to a decimal string, without trailing zeros.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	abs := new(big.Int).Abs(amount)
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	intPart, fracPart := new(big.Int).QuoRem(abs, scale, new(big.Int))

	out := intPart.String()
	if fracPart.Sign() != 0 {
		frac := fracPart.String()
		frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
		out += "." + strings.TrimRight(frac, "0")
	}
	if amount.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// FormatEther is FormatUnits at the native currency scale.
func FormatEther(amount *big.Int) string {
	return FormatUnits(amount, EtherDecimals)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
