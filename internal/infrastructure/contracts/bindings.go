package contracts

import (
	"context"
	"fmt"
	"math/big"

	"aave_borrower/internal/app/port"
	"aave_borrower/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/patrickmn/go-cache"
)

// Binder implements port.ContractBinder on top of a blockchain client.
// Only immutable metadata (decimals) is cached; balances, pool addresses and account data never are.
type Binder struct {
	client   port.BlockchainClient
	metadata *cache.Cache
}

// NewBinder creates a Binder for the given client.
func NewBinder(client port.BlockchainClient) *Binder {
	return &Binder{
		client:   client,
		metadata: cache.New(cache.NoExpiration, 0),
	}
}

func (b *Binder) bind(address common.Address, abiName string) boundContract {
	return boundContract{address: address, abi: mustABI(abiName), client: b.client}
}

// WrappedCurrency binds the wrapped native token at address.
func (b *Binder) WrappedCurrency(address common.Address) port.WrappedCurrency {
	return &WrappedCurrency{boundContract: b.bind(address, "weth")}
}

// FungibleToken binds an ERC-20 token at address.
func (b *Binder) FungibleToken(address common.Address) port.FungibleToken {
	return &FungibleToken{boundContract: b.bind(address, "erc20"), metadata: b.metadata}
}

// PoolAddressesProvider binds the addresses provider at address.
func (b *Binder) PoolAddressesProvider(address common.Address) port.PoolAddressesProvider {
	return &PoolAddressesProvider{boundContract: b.bind(address, "poolAddressesProvider")}
}

// LendingPool binds the lending pool at address.
func (b *Binder) LendingPool(address common.Address) port.LendingPool {
	return &LendingPool{boundContract: b.bind(address, "lendingPool")}
}

// PriceOracle binds a Chainlink-style aggregator at address.
func (b *Binder) PriceOracle(address common.Address) port.PriceOracle {
	return &PriceOracle{boundContract: b.bind(address, "aggregatorV3"), metadata: b.metadata}
}

type boundContract struct {
	address common.Address
	abi     abi.ABI
	client  port.BlockchainClient
}

func (c boundContract) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := c.client.CallContract(ctx, c.address, data)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", method, c.address.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s on %s returned no data, is a contract deployed there?", method, c.address.Hex())
	}
	values, err := c.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func (c boundContract) transact(ctx context.Context, value *big.Int, method string, args ...any) (port.PendingTransaction, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	hash, err := c.client.SendTransaction(ctx, c.address, value, data)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", method, c.address.Hex(), err)
	}
	return &pendingTransaction{hash: hash, client: c.client}, nil
}

type pendingTransaction struct {
	hash   common.Hash
	client port.BlockchainClient
}

func (p *pendingTransaction) Hash() common.Hash { return p.hash }

func (p *pendingTransaction) Wait(ctx context.Context, confirmations uint64) (*types.Receipt, error) {
	return p.client.WaitForConfirmations(ctx, p.hash, confirmations)
}

// WrappedCurrency is the IWeth binding.
type WrappedCurrency struct {
	boundContract
}

// Wrap sends amount of native currency to deposit().
func (w *WrappedCurrency) Wrap(ctx context.Context, amount *big.Int) (port.PendingTransaction, error) {
	return w.transact(ctx, amount, "deposit")
}

// BalanceOf returns the wrapped balance of account.
func (w *WrappedCurrency) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	values, err := w.call(ctx, "balanceOf", account)
	if err != nil {
		return nil, err
	}
	return asBigInt(values, 0, "balanceOf")
}

// FungibleToken is the IERC20 binding.
type FungibleToken struct {
	boundContract
	metadata *cache.Cache
}

// Approve grants spender an allowance of exactly amount.
func (t *FungibleToken) Approve(ctx context.Context, spender common.Address, amount *big.Int) (port.PendingTransaction, error) {
	return t.transact(ctx, nil, "approve", spender, amount)
}

// Decimals returns the token's decimals.
func (t *FungibleToken) Decimals(ctx context.Context) (uint8, error) {
	return cachedDecimals(ctx, t.boundContract, t.metadata)
}

// PoolAddressesProvider is the ILendingPoolAddressesProvider binding.
type PoolAddressesProvider struct {
	boundContract
}

// LendingPool returns the pool's current address. It is read on every call.
func (p *PoolAddressesProvider) LendingPool(ctx context.Context) (common.Address, error) {
	values, err := p.call(ctx, "getLendingPool")
	if err != nil {
		return common.Address{}, err
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("getLendingPool returned %T", values[0])
	}
	return addr, nil
}

// LendingPool is the ILendingPool binding.
type LendingPool struct {
	boundContract
}

// Address returns the address the pool is bound at.
func (p *LendingPool) Address() common.Address { return p.address }

// Deposit supplies amount of asset on behalf of onBehalfOf.
func (p *LendingPool) Deposit(ctx context.Context, asset common.Address, amount *big.Int, onBehalfOf common.Address, referralCode uint16) (port.PendingTransaction, error) {
	return p.transact(ctx, nil, "deposit", asset, amount, onBehalfOf, referralCode)
}

// Borrow draws amount of asset against onBehalfOf's collateral.
func (p *LendingPool) Borrow(ctx context.Context, asset common.Address, amount *big.Int, rateMode entity.InterestRateMode, referralCode uint16, onBehalfOf common.Address) (port.PendingTransaction, error) {
	return p.transact(ctx, nil, "borrow", asset, amount, rateMode.BigInt(), referralCode, onBehalfOf)
}

// Repay returns amount of asset for the given rate mode.
func (p *LendingPool) Repay(ctx context.Context, asset common.Address, amount *big.Int, rateMode entity.InterestRateMode, onBehalfOf common.Address) (port.PendingTransaction, error) {
	return p.transact(ctx, nil, "repay", asset, amount, rateMode.BigInt(), onBehalfOf)
}

// UserAccountData reads the account's aggregate position.
func (p *LendingPool) UserAccountData(ctx context.Context, user common.Address) (entity.AccountData, error) {
	values, err := p.call(ctx, "getUserAccountData", user)
	if err != nil {
		return entity.AccountData{}, err
	}
	fields := make([]*big.Int, 6)
	for i := range fields {
		if fields[i], err = asBigInt(values, i, "getUserAccountData"); err != nil {
			return entity.AccountData{}, err
		}
	}
	return entity.AccountData{
		TotalCollateralBase:         fields[0],
		TotalDebtBase:               fields[1],
		AvailableBorrowsBase:        fields[2],
		CurrentLiquidationThreshold: fields[3],
		LTV:                         fields[4],
		HealthFactor:                fields[5],
	}, nil
}

// PriceOracle is the AggregatorV3Interface binding.
type PriceOracle struct {
	boundContract
	metadata *cache.Cache
}

// LatestQuote reads latestRoundData and the feed's decimals.
func (o *PriceOracle) LatestQuote(ctx context.Context) (entity.PriceQuote, error) {
	decimals, err := cachedDecimals(ctx, o.boundContract, o.metadata)
	if err != nil {
		return entity.PriceQuote{}, err
	}
	values, err := o.call(ctx, "latestRoundData")
	if err != nil {
		return entity.PriceQuote{}, err
	}
	roundID, err := asBigInt(values, 0, "latestRoundData")
	if err != nil {
		return entity.PriceQuote{}, err
	}
	answer, err := asBigInt(values, 1, "latestRoundData")
	if err != nil {
		return entity.PriceQuote{}, err
	}
	updatedAt, err := asBigInt(values, 3, "latestRoundData")
	if err != nil {
		return entity.PriceQuote{}, err
	}
	return entity.PriceQuote{
		Answer:    answer,
		Decimals:  decimals,
		RoundID:   roundID,
		UpdatedAt: updatedAt.Uint64(),
	}, nil
}

func cachedDecimals(ctx context.Context, c boundContract, metadata *cache.Cache) (uint8, error) {
	key := c.address.Hex() + ":decimals"
	if v, ok := metadata.Get(key); ok {
		return v.(uint8), nil
	}
	values, err := c.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals returned %T", values[0])
	}
	metadata.Set(key, decimals, cache.NoExpiration)
	return decimals, nil
}

func asBigInt(values []any, i int, method string) (*big.Int, error) {
	if i >= len(values) {
		return nil, fmt.Errorf("%s returned %d values, want more than %d", method, len(values), i)
	}
	v, ok := values[i].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s value %d is %T, not *big.Int", method, i, values[i])
	}
	return v, nil
}
