package entity

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure so callers can decide between retry and abort.
type ErrorKind int

const (
	// KindConfig is a missing or invalid configuration value.
	KindConfig ErrorKind = iota + 1
	// KindExternalCall is a failed RPC call, contract revert or transaction failure.
	KindExternalCall
	// KindArithmetic is a domain error in amount or capacity arithmetic.
	KindArithmetic
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindExternalCall:
		return "external_call"
	case KindArithmetic:
		return "arithmetic"
	default:
		return "unknown"
	}
}

var (
	ErrMissingAddress      = errors.New("contract address not configured")
	ErrTransactionFailed   = errors.New("transaction reverted")
	ErrNonPositiveQuote    = errors.New("price feed returned a non-positive quote")
	ErrInvalidSafetyMargin = errors.New("safety margin must be within (0, 10000) basis points")
	ErrAmountOverflow      = errors.New("amount does not fit in 256 bits")
	ErrInvalidAmount       = errors.New("invalid amount")
)

// StepError is the error every pipeline step fails with.
type StepError struct {
	Step string
	Kind ErrorKind
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed (%s): %v", e.Step, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError wraps err for the given step. A nil err yields nil.
func NewStepError(step string, kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &StepError{Step: step, Kind: kind, Err: err}
}

// KindOf returns the kind of the first StepError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return stepErr.Kind
	}
	return 0
}
