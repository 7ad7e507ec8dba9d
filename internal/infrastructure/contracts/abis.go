package contracts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// IWeth: the wrapped native currency token.
const wethABI = `[
	{"name":"deposit","type":"function","stateMutability":"payable","inputs":[],"outputs":[]},
	{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

// IERC20 subset.
const erc20ABI = `[
	{"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]}
]`

// ILendingPoolAddressesProvider subset.
const poolAddressesProviderABI = `[
	{"name":"getLendingPool","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]}
]`

// ILendingPool subset.
const lendingPoolABI = `[
	{"name":"deposit","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"onBehalfOf","type":"address"},{"name":"referralCode","type":"uint16"}],"outputs":[]},
	{"name":"borrow","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"interestRateMode","type":"uint256"},{"name":"referralCode","type":"uint16"},{"name":"onBehalfOf","type":"address"}],"outputs":[]},
	{"name":"repay","type":"function","stateMutability":"nonpayable","inputs":[{"name":"asset","type":"address"},{"name":"amount","type":"uint256"},{"name":"rateMode","type":"uint256"},{"name":"onBehalfOf","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"name":"getUserAccountData","type":"function","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[
		{"name":"totalCollateralETH","type":"uint256"},
		{"name":"totalDebtETH","type":"uint256"},
		{"name":"availableBorrowsETH","type":"uint256"},
		{"name":"currentLiquidationThreshold","type":"uint256"},
		{"name":"ltv","type":"uint256"},
		{"name":"healthFactor","type":"uint256"}
	]}
]`

// AggregatorV3Interface subset.
const aggregatorV3ABI = `[
	{"name":"decimals","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"name":"latestRoundData","type":"function","stateMutability":"view","inputs":[],"outputs":[
		{"name":"roundId","type":"uint80"},
		{"name":"answer","type":"int256"},
		{"name":"startedAt","type":"uint256"},
		{"name":"updatedAt","type":"uint256"},
		{"name":"answeredInRound","type":"uint80"}
	]}
]`

var (
	parsedABIs     map[string]abi.ABI
	parsedABIsOnce sync.Once
)

func initParsedABIs() {
	parsedABIsOnce.Do(func() {
		sources := map[string]string{
			"weth":                  wethABI,
			"erc20":                 erc20ABI,
			"poolAddressesProvider": poolAddressesProviderABI,
			"lendingPool":           lendingPoolABI,
			"aggregatorV3":          aggregatorV3ABI,
		}
		parsedABIs = make(map[string]abi.ABI, len(sources))
		for name, src := range sources {
			parsed, err := abi.JSON(strings.NewReader(src))
			if err != nil {
				// the ABIs are compile-time constants
				panic(fmt.Sprintf("failed to parse %s ABI: %v", name, err))
			}
			parsedABIs[name] = parsed
		}
	})
}

func mustABI(name string) abi.ABI {
	initParsedABIs()
	parsed, ok := parsedABIs[name]
	if !ok {
		panic(fmt.Sprintf("unknown ABI %q", name))
	}
	return parsed
}
