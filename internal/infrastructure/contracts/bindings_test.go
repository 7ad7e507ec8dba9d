package contracts

import (
	"context"
	"math/big"
	"testing"

	"aave_borrower/internal/domain/entity"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentTx struct {
	to     common.Address
	value  *big.Int
	method string
	args   []any
}

// fakeClient answers eth_call by method name and decodes submitted transactions.
type fakeClient struct {
	t       *testing.T
	abi     abi.ABI
	results map[string][]any
	calls   map[string]int
	sent    []sentTx
	waited  []common.Hash
}

func newFakeClient(t *testing.T, abiName string) *fakeClient {
	return &fakeClient{t: t, abi: mustABI(abiName), results: map[string][]any{}, calls: map[string]int{}}
}

func (f *fakeClient) CallContract(_ context.Context, _ common.Address, data []byte) ([]byte, error) {
	method, err := f.abi.MethodById(data[:4])
	require.NoError(f.t, err)
	f.calls[method.Name]++
	values, ok := f.results[method.Name]
	if !ok {
		return nil, nil
	}
	return method.Outputs.Pack(values...)
}

func (f *fakeClient) SendTransaction(_ context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	method, err := f.abi.MethodById(data[:4])
	require.NoError(f.t, err)
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(f.t, err)
	f.sent = append(f.sent, sentTx{to: to, value: value, method: method.Name, args: args})
	return common.BigToHash(big.NewInt(int64(len(f.sent)))), nil
}

func (f *fakeClient) WaitForConfirmations(_ context.Context, txHash common.Hash, _ uint64) (*types.Receipt, error) {
	f.waited = append(f.waited, txHash)
	return &types.Receipt{TxHash: txHash, Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}, nil
}

func (f *fakeClient) ChainID(context.Context) (*big.Int, error) { return big.NewInt(31337), nil }

func (f *fakeClient) Definition() entity.NetworkDefinition { return entity.NetworkDefinition{} }

var (
	account = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	weth    = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	dai     = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	pool    = common.HexToAddress("0x7d2768dE32b0b80b7a3454c06BdAc94A69DDc7A9")
)

func TestWrappedCurrencyWrapAndBalance(t *testing.T) {
	client := newFakeClient(t, "weth")
	client.results["balanceOf"] = []any{big.NewInt(10000000000000000)}
	w := NewBinder(client).WrappedCurrency(weth)

	tx, err := w.Wrap(context.Background(), big.NewInt(10000000000000000))
	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "deposit", client.sent[0].method)
	assert.Equal(t, weth, client.sent[0].to)
	assert.Equal(t, big.NewInt(10000000000000000), client.sent[0].value)

	receipt, err := tx.Wait(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, tx.Hash(), receipt.TxHash)

	balance, err := w.BalanceOf(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000", balance.String())
}

func TestFungibleTokenApproveAndCachedDecimals(t *testing.T) {
	client := newFakeClient(t, "erc20")
	client.results["decimals"] = []any{uint8(18)}
	binder := NewBinder(client)
	token := binder.FungibleToken(dai)

	_, err := token.Approve(context.Background(), pool, big.NewInt(42))
	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "approve", client.sent[0].method)
	assert.Equal(t, []any{pool, big.NewInt(42)}, client.sent[0].args)

	for i := 0; i < 3; i++ {
		d, err := binder.FungibleToken(dai).Decimals(context.Background())
		require.NoError(t, err)
		assert.Equal(t, uint8(18), d)
	}
	assert.Equal(t, 1, client.calls["decimals"])
}

func TestPoolAddressesProviderAlwaysQueries(t *testing.T) {
	client := newFakeClient(t, "poolAddressesProvider")
	client.results["getLendingPool"] = []any{pool}
	provider := NewBinder(client).PoolAddressesProvider(common.HexToAddress("0xB53C1a33016B2DC2fF3653530bfF1848a515c8c5"))

	for i := 0; i < 2; i++ {
		addr, err := provider.LendingPool(context.Background())
		require.NoError(t, err)
		assert.Equal(t, pool, addr)
	}
	assert.Equal(t, 2, client.calls["getLendingPool"])
}

func TestLendingPoolTransactions(t *testing.T) {
	client := newFakeClient(t, "lendingPool")
	lp := NewBinder(client).LendingPool(pool)
	ctx := context.Background()
	amount := big.NewInt(1000)

	_, err := lp.Deposit(ctx, weth, amount, account, 0)
	require.NoError(t, err)
	_, err = lp.Borrow(ctx, dai, amount, entity.VariableRate, 0, account)
	require.NoError(t, err)
	_, err = lp.Repay(ctx, dai, amount, entity.VariableRate, account)
	require.NoError(t, err)

	require.Len(t, client.sent, 3)
	assert.Equal(t, pool, lp.Address())
	assert.Equal(t, "deposit", client.sent[0].method)
	assert.Equal(t, []any{weth, amount, account, uint16(0)}, client.sent[0].args)
	assert.Equal(t, "borrow", client.sent[1].method)
	assert.Equal(t, []any{dai, amount, big.NewInt(2), uint16(0), account}, client.sent[1].args)
	assert.Equal(t, "repay", client.sent[2].method)
	assert.Equal(t, []any{dai, amount, big.NewInt(2), account}, client.sent[2].args)
}

func TestLendingPoolUserAccountData(t *testing.T) {
	client := newFakeClient(t, "lendingPool")
	client.results["getUserAccountData"] = []any{
		big.NewInt(10000000000000000),
		big.NewInt(0),
		big.NewInt(8250000000000000),
		big.NewInt(8600),
		big.NewInt(8250),
		big.NewInt(1),
	}
	data, err := NewBinder(client).LendingPool(pool).UserAccountData(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "10000000000000000", data.TotalCollateralBase.String())
	assert.Equal(t, "0", data.TotalDebtBase.String())
	assert.Equal(t, "8250000000000000", data.AvailableBorrowsBase.String())
	assert.Equal(t, "8250", data.LTV.String())
}

func TestPriceOracleLatestQuote(t *testing.T) {
	client := newFakeClient(t, "aggregatorV3")
	client.results["decimals"] = []any{uint8(18)}
	client.results["latestRoundData"] = []any{
		big.NewInt(7),
		big.NewInt(619412182360188),
		big.NewInt(1700000000),
		big.NewInt(1700000001),
		big.NewInt(7),
	}
	quote, err := NewBinder(client).PriceOracle(common.HexToAddress("0x773616E4d11A78F511299002da57A0a94577F1f4")).LatestQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "619412182360188", quote.Answer.String())
	assert.Equal(t, uint8(18), quote.Decimals)
	assert.Equal(t, uint64(1700000001), quote.UpdatedAt)
	assert.Equal(t, "7", quote.RoundID.String())
}

func TestCallWithoutContractCode(t *testing.T) {
	client := newFakeClient(t, "poolAddressesProvider")
	_, err := NewBinder(client).PoolAddressesProvider(common.Address{}).LendingPool(context.Background())
	assert.ErrorContains(t, err, "returned no data")
}

func TestABIsDeclareOnlyBoundMethods(t *testing.T) {
	want := map[string][]string{
		"weth":                  {"deposit", "balanceOf"},
		"erc20":                 {"approve", "decimals"},
		"poolAddressesProvider": {"getLendingPool"},
		"lendingPool":           {"deposit", "borrow", "repay", "getUserAccountData"},
		"aggregatorV3":          {"decimals", "latestRoundData"},
	}
	for name, methods := range want {
		got := make([]string, 0, len(mustABI(name).Methods))
		for method := range mustABI(name).Methods {
			got = append(got, method)
		}
		assert.ElementsMatch(t, methods, got, name)
	}
}
