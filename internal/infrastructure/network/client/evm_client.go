package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"aave_borrower/internal/app/port"
	"aave_borrower/internal/domain/entity"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/time/rate"
)

// gasBufferPercent is added on top of the node's gas estimate.
const gasBufferPercent = 20

// ethBackend is the subset of *ethclient.Client the EVM client uses.
type ethBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Options tune an EVMClient.
type Options struct {
	ConnectTimeout time.Duration
	RPCCallTimeout time.Duration
	PollInterval   time.Duration
	RateLimit      float64
	Burst          int
}

func (o Options) withDefaults() Options {
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 10 * time.Second
	}
	if o.RPCCallTimeout <= 0 {
		o.RPCCallTimeout = 30 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 10
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
	return o
}

// EVMClient implements port.BlockchainClient for EVM-compatible chains.
type EVMClient struct {
	backend        ethBackend
	netDef         entity.NetworkDefinition
	signer         port.Signer
	chainID        *big.Int
	limiter        *rate.Limiter
	rpcCallTimeout time.Duration
	pollInterval   time.Duration
}

// NewEVMClient dials the network's primary RPC URL, then the fallbacks, keeping the first endpoint
// that answers eth_chainId.
func NewEVMClient(ctx context.Context, netDef entity.NetworkDefinition, signer port.Signer, opts Options) (*EVMClient, error) {
	opts = opts.withDefaults()
	rpcURLs := append([]string{netDef.PrimaryRPCURL}, netDef.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		dialCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
		ec, err := ethclient.DialContext(dialCtx, rpcURL)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
			continue
		}
		chainID, err := ec.ChainID(dialCtx)
		cancel()
		if err != nil {
			ec.Close()
			lastErr = fmt.Errorf("failed to verify chainID for %s: %w", rpcURL, err)
			continue
		}
		if netDef.ChainID != 0 && chainID.Uint64() != netDef.ChainID {
			ec.Close()
			lastErr = fmt.Errorf("chainID mismatch for %s: expected %d, got %s", rpcURL, netDef.ChainID, chainID)
			continue
		}
		return newEVMClient(ec, netDef, signer, chainID, opts), nil
	}

	if lastErr == nil {
		lastErr = errors.New("no RPC URL configured")
	}
	return nil, fmt.Errorf("all RPC connection attempts failed for network %s: %w", netDef.Name, lastErr)
}

func newEVMClient(backend ethBackend, netDef entity.NetworkDefinition, signer port.Signer, chainID *big.Int, opts Options) *EVMClient {
	opts = opts.withDefaults()
	return &EVMClient{
		backend:        backend,
		netDef:         netDef,
		signer:         signer,
		chainID:        new(big.Int).Set(chainID),
		limiter:        rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst),
		rpcCallTimeout: opts.RPCCallTimeout,
		pollInterval:   opts.PollInterval,
	}
}

// DialChainID asks the node at rpcURL for its chain identifier.
func DialChainID(ctx context.Context, rpcURL string, timeout time.Duration) (uint64, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ec, err := ethclient.DialContext(dialCtx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}
	defer ec.Close()
	chainID, err := ec.ChainID(dialCtx)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId on %s: %w", rpcURL, err)
	}
	return chainID.Uint64(), nil
}

// call runs fn under the rate limiter with the per-call timeout.
func (c *EVMClient) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// the limiter refuses early when the next token lies past the deadline
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("rate limiter: %w: %v", context.DeadlineExceeded, err)
		}
		return fmt.Errorf("rate limiter: %w", err)
	}
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()
	return fn(callCtx)
}

// ChainID returns the chain identifier the node reported when the client was created.
func (c *EVMClient) ChainID(_ context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.chainID), nil
}

// CallContract executes a read-only call from the signer's address against the latest block.
func (c *EVMClient) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	if c.signer != nil {
		msg.From = c.signer.Address()
	}
	var out []byte
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		out, err = c.backend.CallContract(ctx, msg, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("eth_call to %s: %w", to.Hex(), err)
	}
	return out, nil
}

// SendTransaction builds, signs and submits a transaction from the signer. EIP-1559 fees are used
// when the chain reports a base fee, legacy gas price otherwise.
func (c *EVMClient) SendTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	if c.signer == nil {
		return common.Hash{}, errors.New("no signer configured")
	}
	if value == nil {
		value = new(big.Int)
	}
	from := c.signer.Address()

	var (
		nonce uint64
		head  *types.Header
		gas   uint64
	)
	if err := c.call(ctx, func(ctx context.Context) error {
		var err error
		nonce, err = c.backend.PendingNonceAt(ctx, from)
		return err
	}); err != nil {
		return common.Hash{}, fmt.Errorf("fetch nonce for %s: %w", from.Hex(), err)
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		var err error
		head, err = c.backend.HeaderByNumber(ctx, nil)
		return err
	}); err != nil {
		return common.Hash{}, fmt.Errorf("fetch head: %w", err)
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		var err error
		gas, err = c.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Value: value, Data: data})
		return err
	}); err != nil {
		return common.Hash{}, fmt.Errorf("estimate gas for call to %s: %w", to.Hex(), err)
	}
	gas += gas * gasBufferPercent / 100

	var tx *types.Transaction
	if head != nil && head.BaseFee != nil {
		var tip *big.Int
		if err := c.call(ctx, func(ctx context.Context) error {
			var err error
			tip, err = c.backend.SuggestGasTipCap(ctx)
			return err
		}); err != nil {
			return common.Hash{}, fmt.Errorf("suggest gas tip: %w", err)
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   c.chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gas,
			To:        &to,
			Value:     value,
			Data:      data,
		})
	} else {
		var gasPrice *big.Int
		if err := c.call(ctx, func(ctx context.Context) error {
			var err error
			gasPrice, err = c.backend.SuggestGasPrice(ctx)
			return err
		}); err != nil {
			return common.Hash{}, fmt.Errorf("suggest gas price: %w", err)
		}
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       &to,
			Value:    value,
			Data:     data,
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.signer.PrivateKey())
	if err != nil {
		return common.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		return c.backend.SendTransaction(ctx, signed)
	}); err != nil {
		return common.Hash{}, fmt.Errorf("send transaction to %s: %w", to.Hex(), err)
	}
	return signed.Hash(), nil
}

// WaitForConfirmations polls for the receipt until it has the requested number of confirmations.
// The mined block itself counts as the first confirmation. There is no overall deadline beyond ctx.
func (c *EVMClient) WaitForConfirmations(ctx context.Context, txHash common.Hash, confirmations uint64) (*types.Receipt, error) {
	if confirmations == 0 {
		confirmations = 1
	}
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.confirmedReceipt(ctx, txHash, confirmations)
		if err != nil || receipt != nil {
			return receipt, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// confirmedReceipt returns (nil, nil) while the transaction is pending or under-confirmed.
func (c *EVMClient) confirmedReceipt(ctx context.Context, txHash common.Hash, confirmations uint64) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		receipt, err = c.backend.TransactionReceipt(ctx, txHash)
		return err
	})
	if errors.Is(err, ethereum.NotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch receipt for %s: %w", txHash.Hex(), err)
	}
	if receipt == nil || receipt.BlockNumber == nil {
		return nil, nil
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s in block %s", entity.ErrTransactionFailed, txHash.Hex(), receipt.BlockNumber)
	}

	var head uint64
	if err := c.call(ctx, func(ctx context.Context) error {
		var err error
		head, err = c.backend.BlockNumber(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("fetch head: %w", err)
	}
	mined := receipt.BlockNumber.Uint64()
	if head < mined {
		return nil, nil
	}
	if head-mined+1 < confirmations {
		return nil, nil
	}
	return receipt, nil
}

// Definition returns the network definition for this client.
func (c *EVMClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	if closer, ok := c.backend.(interface{ Close() }); ok {
		closer.Close()
	}
}
