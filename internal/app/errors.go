package app

import (
	"errors"
	"fmt"

	"github.com/tdavis6/myqrkit/internal/contract"
	"github.com/tdavis6/myqrkit/internal/output"
)

const (
	exitGeneric         = 1
	exitInvalidUsage    = 2
	exitPayloadTooLarge = 5
)

type AppError struct {
	Code    int
	Err     error
	Printed bool
}

func (e AppError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e AppError) Unwrap() error { return e.Err }

func Wrap(code int, err error) error {
	if err == nil {
		return nil
	}
	return AppError{Code: code, Err: err}
}

func WrapPrinted(code int, err error) error {
	if err == nil {
		return nil
	}
	return AppError{Code: code, Err: err, Printed: true}
}

func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e AppError
	if errors.As(err, &e) {
		return e.Code
	}
	return exitGeneric
}

// failWithHint prints err through p and returns it marked as printed.
func failWithHint(p output.Printer, code contract.ErrorCode, err error, hint string, exit int) error {
	_ = p.Error(code, err.Error(), hint)
	return WrapPrinted(exit, err)
}

func errorCodeForExit(code int) contract.ErrorCode {
	switch code {
	case exitInvalidUsage:
		return contract.ErrInvalidUsage
	case exitPayloadTooLarge:
		return contract.ErrPayloadTooLarge
	default:
		return contract.ErrGeneric
	}
}
