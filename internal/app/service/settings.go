package service

import (
	"fmt"

	"aave_borrower/internal/app/port"
	"aave_borrower/internal/domain/entity"
	"aave_borrower/internal/infrastructure/configloader"
	"aave_borrower/internal/pkg/utils"
)

// NewBorrowSettings builds the pipeline input from the loaded configuration and the resolved network.
// Failures are KindConfig step errors.
func NewBorrowSettings(cfg *configloader.Config, network entity.NetworkDefinition) (BorrowSettings, error) {
	amount, err := utils.ParseEther(cfg.Borrow.Amount)
	if err != nil {
		return BorrowSettings{}, entity.NewStepError(StepConfig, entity.KindConfig, fmt.Errorf("borrow.amount: %w", err))
	}
	mode, ok := entity.ParseInterestRateMode(cfg.Borrow.InterestRateMode)
	if !ok {
		return BorrowSettings{}, entity.NewStepError(StepConfig, entity.KindConfig,
			fmt.Errorf("borrow.interestRateMode: unknown mode %q", cfg.Borrow.InterestRateMode))
	}
	return BorrowSettings{
		Network:      network,
		Amount:       amount,
		SafetyBps:    cfg.Borrow.SafetyBps,
		RateMode:     mode,
		ReferralCode: cfg.Borrow.ReferralCode,
		Repay:        cfg.Borrow.ShouldRepay(),
	}, nil
}

// ApplyRPCOverrides points network at the configured RPC endpoints. The chain identifier is always set so
// that an unknown chain still gets a client.
func ApplyRPCOverrides(network entity.NetworkDefinition, chainID uint64, rpc configloader.RPCConfig) entity.NetworkDefinition {
	network.ChainID = chainID
	if network.Name == "" {
		network.Name = fmt.Sprintf("chain-%d", chainID)
	}
	if rpc.URL != "" {
		network.PrimaryRPCURL = rpc.URL
	}
	if len(rpc.FallbackURLs) > 0 {
		network.FallbackRPCURLs = append([]string(nil), rpc.FallbackURLs...)
	}
	return network
}

// ResolveNetwork looks chainID up in the network table and applies the RPC overrides. An unknown chain is
// not an error here: it resolves to empty addresses, which the pipeline rejects before sending anything.
func ResolveNetwork(provider port.NetworkDefinitionProvider, chainID uint64, rpc configloader.RPCConfig, l port.Logger) entity.NetworkDefinition {
	network := provider.Resolve(chainID)
	if network.IsZero() {
		known := make([]uint64, 0)
		for _, def := range provider.GetAllNetworkDefinitions() {
			known = append(known, def.ChainID)
		}
		l.Warn("Chain is not in the network table, contract addresses will be empty", "chain_id", chainID, "known_chains", known)
	}
	return ApplyRPCOverrides(network, chainID, rpc)
}
