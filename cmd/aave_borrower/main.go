package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"aave_borrower/internal/app/port"
	"aave_borrower/internal/app/service"
	"aave_borrower/internal/domain/entity"
	"aave_borrower/internal/infrastructure/configloader"
	"aave_borrower/internal/infrastructure/contracts"
	clientprovider "aave_borrower/internal/infrastructure/network/client"
	networkdefinition "aave_borrower/internal/infrastructure/network/definition"
	"aave_borrower/internal/infrastructure/reporter"
	"aave_borrower/internal/infrastructure/walletloader"
	"aave_borrower/internal/pkg/logger"
	"aave_borrower/internal/pkg/metrics"
	"aave_borrower/internal/pkg/utils"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const defaultConfigPath = "config/config.yml"

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; real environment variables take precedence
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		return 1
	}

	cfgPath := utils.GetEnv("CONFIG_PATH", defaultConfigPath)
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	zapLogger, err := logger.NewZap(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize zap logger: %v\n", err)
		return 1
	}
	defer func() { _ = zapLogger.Sync() }()
	logger.Init(zapLogger, cfg.Logging.Level)
	zapLogger.Debug("Configuration loaded", zap.String("path", cfgPath))

	appLogger := logger.NewSlogAdapter()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recorder := metrics.NewRecorder()
	defer func() {
		if cfg.Metrics.Textfile == "" {
			return
		}
		if err := recorder.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Warn("Failed to write metrics textfile", "path", cfg.Metrics.Textfile, "error", err)
		}
	}()

	signer, err := walletloader.NewWalletLoader(
		cfg.Account.KeystorePath,
		cfg.Account.PassphraseEnv,
		cfg.Account.PrivateKeyEnv,
		appLogger.Info,
	).GetSigner()
	if err != nil {
		logger.Error("Failed to load signer", "error", err)
		return 1
	}

	chainID := cfg.RPC.ChainID
	if chainID == 0 {
		opts := clientprovider.OptionsFromConfig(cfg)
		if chainID, err = clientprovider.DialChainID(ctx, cfg.RPC.URL, opts.ConnectTimeout); err != nil {
			logger.Error("Failed to query chain id", "rpc", cfg.RPC.URL, "error", err)
			return 1
		}
	}

	var netDefProvider port.NetworkDefinitionProvider = networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Networks)
	netDef := service.ResolveNetwork(netDefProvider, chainID, cfg.RPC, appLogger)
	if networkdefinition.IsDevelopmentChain(netDef.Name) {
		logger.Info("Running against a development chain", "network", netDef.Name)
	}

	settings, err := service.NewBorrowSettings(cfg, netDef)
	if err != nil {
		logger.Error("Invalid borrow settings", "error", err)
		return 1
	}

	client, err := clientprovider.NewEVMClientProvider(cfg, appLogger).GetClient(ctx, netDef, signer)
	if err != nil {
		logger.Error("Failed to connect to network", "network", netDef.Name, "error", err)
		return 1
	}
	if closer, ok := client.(interface{ Close() }); ok {
		defer closer.Close()
	}
	logger.Debug("Connected", "network", client.Definition().Name, "rpc", client.Definition().PrimaryRPCURL)

	pipeline := service.NewBorrowPipeline(contracts.NewBinder(client), appLogger, recorder, settings)
	report, runErr := pipeline.Run(ctx, signer.Address())

	if err := reporter.Write(os.Stdout, cfg.Report.Format, report); err != nil {
		logger.Error("Failed to print run report", "error", err)
	}

	if runErr != nil {
		var stepErr *entity.StepError
		if errors.As(runErr, &stepErr) {
			logger.Error("Borrow run failed", "step", stepErr.Step, "kind", stepErr.Kind.String(), "error", stepErr.Err)
		} else {
			logger.Error("Borrow run failed", "error", runErr)
		}
		return 1
	}
	logger.Info("Borrow run completed", "borrowed", report.BorrowAmount.String())
	return 0
}
