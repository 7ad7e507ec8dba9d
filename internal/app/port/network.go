package port

import (
	"context"
	"math/big"

	"aave_borrower/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// BlockchainClient is the RPC surface the contract bindings run on.
type BlockchainClient interface {
	// CallContract executes a read-only call against the latest block.
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)

	// SendTransaction signs and submits a transaction from the client's signer.
	SendTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error)

	// WaitForConfirmations blocks until the transaction is mined with the given number of confirmations.
	// A reverted transaction yields entity.ErrTransactionFailed.
	WaitForConfirmations(ctx context.Context, txHash common.Hash, confirmations uint64) (*types.Receipt, error)

	// ChainID returns the chain identifier reported by the node.
	ChainID(ctx context.Context) (*big.Int, error)

	// Definition returns the network definition associated with this client.
	Definition() entity.NetworkDefinition
}

// NetworkDefinitionProvider resolves network definitions by chain identifier.
type NetworkDefinitionProvider interface {
	// Resolve returns the definition for chainID. Unknown chains yield a zero definition
	// whose address fields are all empty strings.
	Resolve(chainID uint64) entity.NetworkDefinition

	// Lookup is Resolve with an explicit found flag.
	Lookup(chainID uint64) (entity.NetworkDefinition, bool)

	// GetAllNetworkDefinitions returns every known definition ordered by chain identifier.
	GetAllNetworkDefinitions() []entity.NetworkDefinition
}

// BlockchainClientProvider hands out clients per network.
type BlockchainClientProvider interface {
	GetClient(ctx context.Context, networkDefinition entity.NetworkDefinition, signer Signer) (BlockchainClient, error)
}
