package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aave_borrower/internal/app/port"
	"aave_borrower/internal/domain/entity"
	"aave_borrower/internal/infrastructure/configloader"
)

// evmClientProvider implements the port.BlockchainClientProvider interface.
type evmClientProvider struct {
	clients map[uint64]port.BlockchainClient
	mu      sync.Mutex
	logger  port.Logger
	opts    Options
}

// NewEVMClientProvider creates a new EVMClientProvider.
func NewEVMClientProvider(cfg *configloader.Config, log port.Logger) port.BlockchainClientProvider {
	return &evmClientProvider{
		clients: make(map[uint64]port.BlockchainClient),
		logger:  log,
		opts:    OptionsFromConfig(cfg),
	}
}

// OptionsFromConfig maps the rpc section of the configuration to client options.
func OptionsFromConfig(cfg *configloader.Config) Options {
	return Options{
		ConnectTimeout: secondsToDuration(cfg.RPC.ConnectTimeoutSeconds),
		RPCCallTimeout: secondsToDuration(cfg.RPC.CallTimeoutSeconds),
		PollInterval:   millisToDuration(cfg.RPC.PollIntervalMillis),
		RateLimit:      cfg.RPC.RateLimit,
		Burst:          cfg.RPC.Burst,
	}
}

// GetClient retrieves a blockchain client for the given network definition.
// Clients are cached by chain identifier.
func (p *evmClientProvider) GetClient(ctx context.Context, netDef entity.NetworkDefinition, signer port.Signer) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, exists := p.clients[netDef.ChainID]; exists {
		p.logger.Debug("Returning cached EVM client", "network", netDef.Name)
		return client, nil
	}

	p.logger.Info("Creating new EVM client", "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL, "rpc_fallbacks", len(netDef.FallbackRPCURLs))
	newClient, err := NewEVMClient(ctx, netDef, signer, p.opts)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.clients[netDef.ChainID] = newClient
	p.logger.Info("Successfully created and cached new EVM client", "network", netDef.Name, "chainId", newClient.chainID)
	return newClient, nil
}

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

func millisToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
