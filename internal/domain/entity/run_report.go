package entity

import "math/big"

// StepStatus is the outcome of a single pipeline step.
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepRecord describes one executed (or skipped) step of a run.
type StepRecord struct {
	Name        string     `json:"name"`
	Status      StepStatus `json:"status"`
	TxHash      string     `json:"txHash,omitempty"`
	BlockNumber uint64     `json:"blockNumber,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// RunReport is the ordered record of one run. A run that fails part way is not resumable:
// the next run starts again from the wrap step.
type RunReport struct {
	ChainID        uint64       `json:"chainId"`
	Network        string       `json:"network"`
	Account        string       `json:"account"`
	LendingPool    string       `json:"lendingPool,omitempty"`
	DepositAmount  *big.Int     `json:"depositAmount"`
	WrappedBalance *big.Int     `json:"wrappedBalance,omitempty"`
	BorrowAmount   *big.Int     `json:"borrowAmount,omitempty"`
	FinalAccount   *AccountData `json:"finalAccount,omitempty"`
	Steps          []StepRecord `json:"steps"`
}

// CompletedSteps returns the names of the steps that finished successfully, in order.
func (r *RunReport) CompletedSteps() []string {
	var names []string
	for _, s := range r.Steps {
		if s.Status == StepCompleted {
			names = append(names, s.Name)
		}
	}
	return names
}

// FailedStep returns the failed step record, if any.
func (r *RunReport) FailedStep() (StepRecord, bool) {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return s, true
		}
	}
	return StepRecord{}, false
}
