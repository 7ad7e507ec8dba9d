package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"aave_borrower/internal/app/port"
	"aave_borrower/internal/domain/entity"
	"aave_borrower/internal/pkg/metrics"
	"aave_borrower/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Step names, in execution order.
const (
	StepConfig            = "config"
	StepWrap              = "wrap"
	StepLocatePool        = "locate_pool"
	StepApproveCollateral = "approve_collateral"
	StepDeposit           = "deposit"
	StepAccountData       = "account_data"
	StepCapacity          = "capacity"
	StepBorrow            = "borrow"
	StepApproveRepay      = "approve_repay"
	StepRepay             = "repay"
	StepFinalAccountData  = "final_account_data"
)

// Every transaction is treated as visible to the next step after a single confirmation.
const requiredConfirmations = 1

// BorrowSettings is the per-run input of the pipeline, built once from the loaded configuration.
type BorrowSettings struct {
	Network      entity.NetworkDefinition
	Amount       *big.Int
	SafetyBps    uint64
	RateMode     entity.InterestRateMode
	ReferralCode uint16
	Repay        bool
}

// addresses are the contract addresses of a run, validated before anything is sent.
type addresses struct {
	wrappedToken common.Address
	poolProvider common.Address
	stableToken  common.Address
	priceFeed    common.Address
}

// BorrowPipeline runs wrap, locate pool, approve, deposit, capacity, borrow and repay strictly in order.
// A run that fails stops at the failing step and is not resumable.
type BorrowPipeline struct {
	binder   port.ContractBinder
	logger   port.Logger
	recorder *metrics.Recorder
	settings BorrowSettings
}

// NewBorrowPipeline creates a pipeline. recorder may be nil.
func NewBorrowPipeline(binder port.ContractBinder, l port.Logger, recorder *metrics.Recorder, settings BorrowSettings) *BorrowPipeline {
	return &BorrowPipeline{
		binder:   binder,
		logger:   l,
		recorder: recorder,
		settings: settings,
	}
}

// run carries the state threaded between steps of a single execution.
type run struct {
	*BorrowPipeline
	account common.Address
	addrs   addresses
	report  *entity.RunReport
	log     port.Logger
}

// Run executes the pipeline for account. The returned report is never nil; on failure it ends with the
// failed step and err is a *entity.StepError.
func (p *BorrowPipeline) Run(ctx context.Context, account common.Address) (*entity.RunReport, error) {
	r := &run{
		BorrowPipeline: p,
		account:        account,
		report: &entity.RunReport{
			ChainID:       p.settings.Network.ChainID,
			Network:       p.settings.Network.Name,
			Account:       account.Hex(),
			DepositAmount: p.settings.Amount,
		},
		log: p.logger.With("network", p.settings.Network.Name, "account", account.Hex()),
	}

	start := time.Now()
	addrs, err := p.validate()
	if err != nil {
		return r.report, r.fail(StepConfig, entity.KindConfig, err, start)
	}
	r.addrs = addrs
	r.log.Info("Starting borrow run",
		"chain_id", p.settings.Network.ChainID,
		"amount", utils.FormatEther(p.settings.Amount),
		"network_confirmations", p.settings.Network.BlockConfirmations,
		"confirmations_waited", requiredConfirmations)

	if err := r.wrap(ctx); err != nil {
		return r.report, err
	}
	pool, err := r.locatePool(ctx)
	if err != nil {
		return r.report, err
	}
	if err := r.approve(ctx, StepApproveCollateral, r.addrs.wrappedToken, pool.Address(), p.settings.Amount); err != nil {
		return r.report, err
	}
	if err := r.deposit(ctx, pool); err != nil {
		return r.report, err
	}
	data, err := r.accountData(ctx, StepAccountData, pool)
	if err != nil {
		return r.report, err
	}
	borrowAmount, err := r.capacity(ctx, data)
	if err != nil {
		return r.report, err
	}
	if err := r.borrow(ctx, pool, borrowAmount); err != nil {
		return r.report, err
	}

	if !p.settings.Repay {
		r.skip(StepApproveRepay, StepRepay)
		if _, err := r.accountData(ctx, StepFinalAccountData, pool); err != nil {
			return r.report, err
		}
		r.log.Info("Borrow run finished without repaying", "borrowed", borrowAmount.String())
		return r.report, nil
	}

	if err := r.approve(ctx, StepApproveRepay, r.addrs.stableToken, pool.Address(), borrowAmount); err != nil {
		return r.report, err
	}
	if err := r.repay(ctx, pool, borrowAmount); err != nil {
		return r.report, err
	}
	if _, err := r.accountData(ctx, StepFinalAccountData, pool); err != nil {
		return r.report, err
	}
	r.log.Info("Borrow run finished", "steps", len(r.report.CompletedSteps()))
	return r.report, nil
}

func (p *BorrowPipeline) validate() (addresses, error) {
	var addrs addresses
	var errs []error
	for _, f := range []struct {
		field string
		value string
		dst   *common.Address
	}{
		{"wrappedNativeTokenAddress", p.settings.Network.WrappedNativeTokenAddress, &addrs.wrappedToken},
		{"poolProviderAddress", p.settings.Network.PoolProviderAddress, &addrs.poolProvider},
		{"stableTokenAddress", p.settings.Network.StableTokenAddress, &addrs.stableToken},
		{"priceFeedAddress", p.settings.Network.PriceFeedAddress, &addrs.priceFeed},
	} {
		addr, err := parseAddress(f.field, f.value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		*f.dst = addr
	}
	if p.settings.Amount == nil || p.settings.Amount.Sign() <= 0 {
		errs = append(errs, fmt.Errorf("%w: deposit amount must be positive", entity.ErrInvalidAmount))
	}
	if p.settings.RateMode != entity.StableRate && p.settings.RateMode != entity.VariableRate {
		errs = append(errs, fmt.Errorf("unsupported interest rate mode %d", p.settings.RateMode))
	}
	return addrs, errors.Join(errs...)
}

func parseAddress(field, value string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("%w: %s", entity.ErrMissingAddress, field)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s is not a valid address: %q", field, value)
	}
	addr := common.HexToAddress(value)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%w: %s is the zero address", entity.ErrMissingAddress, field)
	}
	return addr, nil
}

func (r *run) wrap(ctx context.Context) error {
	start := time.Now()
	weth := r.binder.WrappedCurrency(r.addrs.wrappedToken)
	receipt, err := r.submit(ctx, StepWrap, func() (port.PendingTransaction, error) {
		return weth.Wrap(ctx, r.settings.Amount)
	})
	if err != nil {
		return r.fail(StepWrap, entity.KindExternalCall, err, start)
	}
	balance, err := weth.BalanceOf(ctx, r.account)
	if err != nil {
		return r.fail(StepWrap, entity.KindExternalCall, fmt.Errorf("read wrapped balance: %w", err), start)
	}
	r.report.WrappedBalance = balance
	r.log.Info("Wrapped native currency", "balance", utils.FormatEther(balance))
	r.complete(StepWrap, receipt, start)
	return nil
}

func (r *run) locatePool(ctx context.Context) (port.LendingPool, error) {
	start := time.Now()
	poolAddr, err := r.binder.PoolAddressesProvider(r.addrs.poolProvider).LendingPool(ctx)
	if err != nil {
		return nil, r.fail(StepLocatePool, entity.KindExternalCall, err, start)
	}
	if poolAddr == (common.Address{}) {
		return nil, r.fail(StepLocatePool, entity.KindExternalCall, errors.New("addresses provider returned the zero address"), start)
	}
	r.report.LendingPool = poolAddr.Hex()
	r.log.Info("Lending pool located", "pool", poolAddr.Hex())
	r.complete(StepLocatePool, nil, start)
	return r.binder.LendingPool(poolAddr), nil
}

func (r *run) approve(ctx context.Context, step string, token, spender common.Address, amount *big.Int) error {
	start := time.Now()
	receipt, err := r.submit(ctx, step, func() (port.PendingTransaction, error) {
		return r.binder.FungibleToken(token).Approve(ctx, spender, amount)
	})
	if err != nil {
		return r.fail(step, entity.KindExternalCall, err, start)
	}
	r.complete(step, receipt, start)
	return nil
}

func (r *run) deposit(ctx context.Context, pool port.LendingPool) error {
	start := time.Now()
	receipt, err := r.submit(ctx, StepDeposit, func() (port.PendingTransaction, error) {
		return pool.Deposit(ctx, r.addrs.wrappedToken, r.settings.Amount, r.account, r.settings.ReferralCode)
	})
	if err != nil {
		return r.fail(StepDeposit, entity.KindExternalCall, err, start)
	}
	r.complete(StepDeposit, receipt, start)
	return nil
}

func (r *run) accountData(ctx context.Context, step string, pool port.LendingPool) (entity.AccountData, error) {
	start := time.Now()
	data, err := pool.UserAccountData(ctx, r.account)
	if err != nil {
		return entity.AccountData{}, r.fail(step, entity.KindExternalCall, err, start)
	}
	r.log.Info("Account data",
		"step", step,
		"collateral", utils.FormatEther(data.TotalCollateralBase),
		"debt", utils.FormatEther(data.TotalDebtBase),
		"available_to_borrow", utils.FormatEther(data.AvailableBorrowsBase),
		"health_factor", utils.FormatEther(data.HealthFactor))
	if step == StepFinalAccountData {
		r.report.FinalAccount = &data
	}
	r.complete(step, nil, start)
	return data, nil
}

func (r *run) capacity(ctx context.Context, data entity.AccountData) (*big.Int, error) {
	start := time.Now()
	quote, err := r.binder.PriceOracle(r.addrs.priceFeed).LatestQuote(ctx)
	if err != nil {
		return nil, r.fail(StepCapacity, entity.KindExternalCall, fmt.Errorf("read price feed: %w", err), start)
	}
	stableDecimals, err := r.binder.FungibleToken(r.addrs.stableToken).Decimals(ctx)
	if err != nil {
		return nil, r.fail(StepCapacity, entity.KindExternalCall, fmt.Errorf("read stable token decimals: %w", err), start)
	}
	amount, err := BorrowCapacity(CapacityInput{
		AvailableBorrowsBase: data.AvailableBorrowsBase,
		Quote:                quote,
		StableDecimals:       stableDecimals,
		SafetyBps:            r.settings.SafetyBps,
	})
	if err != nil {
		return nil, r.fail(StepCapacity, entity.KindArithmetic, err, start)
	}
	if amount.Sign() == 0 {
		return nil, r.fail(StepCapacity, entity.KindArithmetic, fmt.Errorf("%w: nothing to borrow", entity.ErrInvalidAmount), start)
	}
	r.report.BorrowAmount = amount
	r.log.Info("Borrow capacity computed",
		"quote", quote.Answer.String(),
		"feed_decimals", quote.Decimals,
		"safety_bps", r.settings.SafetyBps,
		"amount", utils.FormatUnits(amount, stableDecimals))
	r.complete(StepCapacity, nil, start)
	return amount, nil
}

func (r *run) borrow(ctx context.Context, pool port.LendingPool, amount *big.Int) error {
	start := time.Now()
	receipt, err := r.submit(ctx, StepBorrow, func() (port.PendingTransaction, error) {
		return pool.Borrow(ctx, r.addrs.stableToken, amount, r.settings.RateMode, r.settings.ReferralCode, r.account)
	})
	if err != nil {
		return r.fail(StepBorrow, entity.KindExternalCall, err, start)
	}
	r.complete(StepBorrow, receipt, start)
	return nil
}

func (r *run) repay(ctx context.Context, pool port.LendingPool, amount *big.Int) error {
	start := time.Now()
	receipt, err := r.submit(ctx, StepRepay, func() (port.PendingTransaction, error) {
		return pool.Repay(ctx, r.addrs.stableToken, amount, r.settings.RateMode, r.account)
	})
	if err != nil {
		return r.fail(StepRepay, entity.KindExternalCall, err, start)
	}
	r.complete(StepRepay, receipt, start)
	return nil
}

// submit sends a transaction and blocks until it has the required confirmations.
func (r *run) submit(ctx context.Context, step string, send func() (port.PendingTransaction, error)) (*types.Receipt, error) {
	tx, err := send()
	if err != nil {
		return nil, err
	}
	r.recorder.TransactionSubmitted()
	r.log.Info("Transaction submitted", "step", step, "tx", tx.Hash().Hex())

	receipt, err := tx.Wait(ctx, requiredConfirmations)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt == nil || receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", entity.ErrTransactionFailed, tx.Hash().Hex())
	}
	return receipt, nil
}

func (r *run) complete(step string, receipt *types.Receipt, start time.Time) {
	rec := entity.StepRecord{Name: step, Status: entity.StepCompleted}
	if receipt != nil {
		rec.TxHash = receipt.TxHash.Hex()
		if receipt.BlockNumber != nil {
			rec.BlockNumber = receipt.BlockNumber.Uint64()
		}
		r.log.Info("Transaction confirmed", "step", step, "tx", rec.TxHash, "block", rec.BlockNumber)
	}
	r.report.Steps = append(r.report.Steps, rec)
	r.recorder.ObserveStep(step, metrics.OutcomeCompleted, time.Since(start))
}

func (r *run) fail(step string, kind entity.ErrorKind, err error, start time.Time) error {
	stepErr := entity.NewStepError(step, kind, err)
	r.report.Steps = append(r.report.Steps, entity.StepRecord{Name: step, Status: entity.StepFailed, Error: err.Error()})
	r.recorder.ObserveStep(step, metrics.OutcomeFailed, time.Since(start))
	r.log.Error("Step failed", "step", step, "kind", kind.String(), "error", err)
	return stepErr
}

func (r *run) skip(steps ...string) {
	for _, step := range steps {
		r.report.Steps = append(r.report.Steps, entity.StepRecord{Name: step, Status: entity.StepSkipped})
		r.recorder.ObserveStep(step, metrics.OutcomeSkipped, 0)
		r.log.Info("Step skipped", "step", step)
	}
}
