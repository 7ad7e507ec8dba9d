package networkdefinition

import (
	"testing"

	"aave_borrower/internal/domain/entity"
	"aave_borrower/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReturnsStaticEntriesUnchanged(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNop(), nil)

	for chainID, want := range StaticDefinitions() {
		got := p.Resolve(chainID)
		assert.Equal(t, want, got, "chain %d", chainID)
	}

	hardhat := p.Resolve(31337)
	assert.Equal(t, "hardhat", hardhat.Name)
	assert.Equal(t, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", hardhat.WrappedNativeTokenAddress)
	assert.Equal(t, "0xB53C1a33016B2DC2fF3653530bfF1848a515c8c5", hardhat.PoolProviderAddress)
	assert.Equal(t, "Lock on Goerli", p.Resolve(5).LockName)
	assert.Equal(t, uint64(6), p.Resolve(137).BlockConfirmations)
}

func TestResolveUnknownChainYieldsEmptyAddresses(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNop(), nil)

	def := p.Resolve(424242)
	assert.True(t, def.IsZero())
	assert.Equal(t, "", def.WrappedNativeTokenAddress)
	assert.Equal(t, "", def.PoolProviderAddress)
	assert.Equal(t, "", def.StableTokenAddress)
	assert.Equal(t, "", def.PriceFeedAddress)

	_, ok := p.Lookup(424242)
	assert.False(t, ok)
}

func TestOverridesMergeAndAdd(t *testing.T) {
	p := NewNetworkDefinitionProvider(logger.NewNop(), []entity.NetworkDefinition{
		{ChainID: 31337, StableTokenAddress: "0x0000000000000000000000000000000000000001"},
		{ChainID: 11155111, Name: "sepolia", BlockConfirmations: 3},
	})

	hardhat := p.Resolve(31337)
	assert.Equal(t, "hardhat", hardhat.Name)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", hardhat.StableTokenAddress)
	assert.Equal(t, Hardhat.PoolProviderAddress, hardhat.PoolProviderAddress)

	sepolia, ok := p.Lookup(11155111)
	require.True(t, ok)
	assert.Equal(t, "sepolia", sepolia.Name)
	assert.Equal(t, uint64(3), sepolia.BlockConfirmations)

	all := p.GetAllNetworkDefinitions()
	require.Len(t, all, 5)
	assert.Equal(t, uint64(1), all[0].ChainID)
	assert.Equal(t, uint64(11155111), all[4].ChainID)

	// the static table itself is untouched
	assert.Equal(t, Mainnet.StableTokenAddress, StaticDefinitions()[1].StableTokenAddress)
	assert.Equal(t, Hardhat.StableTokenAddress, StaticDefinitions()[31337].StableTokenAddress)
}

func TestIsDevelopmentChain(t *testing.T) {
	assert.True(t, IsDevelopmentChain("hardhat"))
	assert.True(t, IsDevelopmentChain("Localhost"))
	assert.False(t, IsDevelopmentChain("mainnet"))
}
