package entity

// NetworkDefinition holds the per-chain addresses and settings the borrow flow runs against.
// Address fields are plain strings; an absent field is the empty string.
type NetworkDefinition struct {
	ChainID                   uint64   `json:"chainId" yaml:"chainId"`
	Name                      string   `json:"name" yaml:"name"`
	BlockConfirmations        uint64   `json:"blockConfirmations" yaml:"blockConfirmations"`
	LockName                  string   `json:"lockName,omitempty" yaml:"lockName,omitempty"`
	WrappedNativeTokenAddress string   `json:"wrappedNativeTokenAddress" yaml:"wrappedNativeTokenAddress"`
	PoolProviderAddress       string   `json:"poolProviderAddress" yaml:"poolProviderAddress"`
	StableTokenAddress        string   `json:"stableTokenAddress" yaml:"stableTokenAddress"`
	PriceFeedAddress          string   `json:"priceFeedAddress" yaml:"priceFeedAddress"`
	PrimaryRPCURL             string   `json:"primaryRpcUrl,omitempty" yaml:"primaryRpcUrl,omitempty"`
	FallbackRPCURLs           []string `json:"fallbackRpcUrls,omitempty" yaml:"fallbackRpcUrls,omitempty"`
}

// IsZero reports whether the definition carries no data, which is what an unknown chain resolves to.
func (d NetworkDefinition) IsZero() bool {
	return d.ChainID == 0 && d.Name == "" && d.WrappedNativeTokenAddress == "" &&
		d.PoolProviderAddress == "" && d.StableTokenAddress == "" && d.PriceFeedAddress == ""
}
