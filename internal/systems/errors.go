package systems

import (
	"errors"
	"fmt"
)

// Domain errors for port operations. Every *PortError unwraps to one of these.
var (
	ErrAllocationFailure   = errors.New("systems: allocation failure")
	ErrTypeMismatch        = errors.New("systems: type mismatch")
	ErrSizeMismatch        = errors.New("systems: size mismatch")
	ErrContextIncompatible = errors.New("systems: context incompatible with block")
	ErrInvalidArgument     = errors.New("systems: invalid argument")
)

// ErrorCode categorizes port failures.
type ErrorCode string

const (
	CodeAllocationFailure   ErrorCode = "ALLOCATION_FAILURE"
	CodeTypeMismatch        ErrorCode = "TYPE_MISMATCH"
	CodeSizeMismatch        ErrorCode = "SIZE_MISMATCH"
	CodeContextIncompatible ErrorCode = "CONTEXT_INCOMPATIBLE"
	CodeInvalidArgument     ErrorCode = "INVALID_ARGUMENT"
)

// PortError is a failure attributed to a specific output port.
type PortError struct {
	Code ErrorCode

	// Op is the port operation that failed: Allocate, Calc or Eval.
	Op string

	// Port is the port identification string, see OutputPort.PortID.
	Port string

	// Expected and Actual describe the mismatching kinds, sizes or owners.
	Expected string
	Actual   string

	Message string
}

func (e *PortError) Error() string {
	msg := e.Message
	if msg == "" && (e.Expected != "" || e.Actual != "") {
		msg = fmt.Sprintf("expected %s but got %s", e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: %s(): %s for %s", e.Code, e.Op, msg, e.Port)
}

func (e *PortError) Unwrap() error {
	switch e.Code {
	case CodeAllocationFailure:
		return ErrAllocationFailure
	case CodeTypeMismatch:
		return ErrTypeMismatch
	case CodeSizeMismatch:
		return ErrSizeMismatch
	case CodeContextIncompatible:
		return ErrContextIncompatible
	default:
		return ErrInvalidArgument
	}
}

// IsPortError reports whether err is a *PortError with the given code.
func IsPortError(err error, code ErrorCode) bool {
	var pe *PortError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}
