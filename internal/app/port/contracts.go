package port

import (
	"context"
	"math/big"

	"aave_borrower/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// PendingTransaction is a submitted transaction whose effect is not yet visible.
type PendingTransaction interface {
	Hash() common.Hash
	Wait(ctx context.Context, confirmations uint64) (*types.Receipt, error)
}

// WrappedCurrency wraps native currency into its ERC-20 representation.
type WrappedCurrency interface {
	Wrap(ctx context.Context, amount *big.Int) (PendingTransaction, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}

// FungibleToken is the ERC-20 subset the flow needs.
type FungibleToken interface {
	Approve(ctx context.Context, spender common.Address, amount *big.Int) (PendingTransaction, error)
	Decimals(ctx context.Context) (uint8, error)
}

// PoolAddressesProvider resolves the current lending pool implementation.
type PoolAddressesProvider interface {
	LendingPool(ctx context.Context) (common.Address, error)
}

// LendingPool is the deposit/borrow/repay surface of the pool.
type LendingPool interface {
	Address() common.Address
	Deposit(ctx context.Context, asset common.Address, amount *big.Int, onBehalfOf common.Address, referralCode uint16) (PendingTransaction, error)
	Borrow(ctx context.Context, asset common.Address, amount *big.Int, rateMode entity.InterestRateMode, referralCode uint16, onBehalfOf common.Address) (PendingTransaction, error)
	Repay(ctx context.Context, asset common.Address, amount *big.Int, rateMode entity.InterestRateMode, onBehalfOf common.Address) (PendingTransaction, error)
	UserAccountData(ctx context.Context, user common.Address) (entity.AccountData, error)
}

// PriceOracle returns the latest quote of a price feed.
type PriceOracle interface {
	LatestQuote(ctx context.Context) (entity.PriceQuote, error)
}

// ContractBinder binds contract handles at addresses. Binding never touches the network.
type ContractBinder interface {
	WrappedCurrency(address common.Address) WrappedCurrency
	FungibleToken(address common.Address) FungibleToken
	PoolAddressesProvider(address common.Address) PoolAddressesProvider
	LendingPool(address common.Address) LendingPool
	PriceOracle(address common.Address) PriceOracle
}
