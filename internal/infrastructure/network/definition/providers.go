package networkdefinition

import (
	"sort"
	"strings"

	"aave_borrower/internal/app/port"
	"aave_borrower/internal/domain/entity"
)

// Mainnet contract addresses, shared with the local mainnet fork.
const (
	mainnetWETH                   = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	mainnetPoolAddressProvider    = "0xB53C1a33016B2DC2fF3653530bfF1848a515c8c5"
	mainnetDAI                    = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	mainnetDAIETHPriceFeed        = "0x773616E4d11A78F511299002da57A0a94577F1f4"
	defaultHardhatRPCURL          = "http://127.0.0.1:8545"
	defaultBlockConfirmations     = 6
	developmentBlockConfirmations = 1
)

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Mainnet = entity.NetworkDefinition{
		ChainID:                   1,
		Name:                      "mainnet",
		BlockConfirmations:        defaultBlockConfirmations,
		WrappedNativeTokenAddress: mainnetWETH,
		PoolProviderAddress:       mainnetPoolAddressProvider,
		StableTokenAddress:        mainnetDAI,
		PriceFeedAddress:          mainnetDAIETHPriceFeed,
	}
	Goerli = entity.NetworkDefinition{
		ChainID:            5,
		Name:               "goerli",
		BlockConfirmations: defaultBlockConfirmations,
		LockName:           "Lock on Goerli",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:            137,
		Name:               "polygon",
		BlockConfirmations: defaultBlockConfirmations,
	}
	Hardhat = entity.NetworkDefinition{
		ChainID:                   31337,
		Name:                      "hardhat",
		BlockConfirmations:        developmentBlockConfirmations,
		WrappedNativeTokenAddress: mainnetWETH,
		PoolProviderAddress:       mainnetPoolAddressProvider,
		StableTokenAddress:        mainnetDAI,
		PriceFeedAddress:          mainnetDAIETHPriceFeed,
		PrimaryRPCURL:             defaultHardhatRPCURL,
	}
)

// DevelopmentChains are the network names that run against a local node.
var DevelopmentChains = []string{"hardhat", "localhost"} //nolint:gochecknoglobals

// IsDevelopmentChain reports whether name is one of DevelopmentChains.
func IsDevelopmentChain(name string) bool {
	for _, c := range DevelopmentChains {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// StaticDefinitions returns a fresh copy of the built-in table keyed by chain identifier.
func StaticDefinitions() map[uint64]entity.NetworkDefinition {
	defs := make(map[uint64]entity.NetworkDefinition, 4)
	for _, d := range []entity.NetworkDefinition{Mainnet, Goerli, Polygon, Hardhat} {
		d.FallbackRPCURLs = append([]string(nil), d.FallbackRPCURLs...)
		defs[d.ChainID] = d
	}
	return defs
}

// NetworkDefinitionProvider is the read-only network table for a run. It is built once at startup
// and passed to whoever needs it.
type NetworkDefinitionProvider struct {
	logger port.Logger
	defs   map[uint64]entity.NetworkDefinition
}

// NewNetworkDefinitionProvider builds the table from the static definitions and overrides.
// Non-empty override fields replace the static ones; unknown chain identifiers are added.
func NewNetworkDefinitionProvider(log port.Logger, overrides []entity.NetworkDefinition) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger: log,
		defs:   StaticDefinitions(),
	}
	for _, o := range overrides {
		base, known := p.defs[o.ChainID]
		p.defs[o.ChainID] = merge(base, o)
		if known {
			p.logger.Debug("Network definition overridden from config", "chainId", o.ChainID, "name", p.defs[o.ChainID].Name)
		} else {
			p.logger.Info("Network definition added from config", "chainId", o.ChainID, "name", o.Name)
		}
	}
	p.logger.Debug("NetworkDefinitionProvider initialized", "networks", len(p.defs))
	return p
}

// Resolve returns the definition for chainID, or a zero definition when the chain is unknown.
func (p *NetworkDefinitionProvider) Resolve(chainID uint64) entity.NetworkDefinition {
	def, _ := p.Lookup(chainID)
	return def
}

// Lookup returns the definition for chainID and whether it is known.
func (p *NetworkDefinitionProvider) Lookup(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.defs[chainID]
	if !ok {
		p.logger.Warn("No network definition for chain", "chainId", chainID)
		return entity.NetworkDefinition{}, false
	}
	return def, true
}

// GetAllNetworkDefinitions returns every known definition ordered by chain identifier.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	out := make([]entity.NetworkDefinition, 0, len(p.defs))
	for _, d := range p.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChainID < out[j].ChainID })
	return out
}

func merge(base, o entity.NetworkDefinition) entity.NetworkDefinition {
	base.ChainID = o.ChainID
	if o.Name != "" {
		base.Name = o.Name
	}
	if o.BlockConfirmations != 0 {
		base.BlockConfirmations = o.BlockConfirmations
	}
	if o.LockName != "" {
		base.LockName = o.LockName
	}
	if o.WrappedNativeTokenAddress != "" {
		base.WrappedNativeTokenAddress = o.WrappedNativeTokenAddress
	}
	if o.PoolProviderAddress != "" {
		base.PoolProviderAddress = o.PoolProviderAddress
	}
	if o.StableTokenAddress != "" {
		base.StableTokenAddress = o.StableTokenAddress
	}
	if o.PriceFeedAddress != "" {
		base.PriceFeedAddress = o.PriceFeedAddress
	}
	if o.PrimaryRPCURL != "" {
		base.PrimaryRPCURL = o.PrimaryRPCURL
	}
	if len(o.FallbackRPCURLs) > 0 {
		base.FallbackRPCURLs = append([]string(nil), o.FallbackRPCURLs...)
	}
	return base
}
