package cli

import (
	"errors"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// exitError carries an explicit exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: exitUserError, err: err}
}

func systemError(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	if isUserError(err) {
		return userError(err)
	}
	return &exitError{code: exitSysError, err: err}
}

// userErrors are outcomes the user can fix by changing the request.
var userErrors = []error{
	types.ErrProductNotFound,
	types.ErrLineNotFound,
	types.ErrQuantityLimit,
	types.ErrInvalidQuantity,
	types.ErrEmptyCart,
	types.ErrTransientFailure,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrRedisAddrEmpty,
	types.ErrInvalidTaxRate,
	types.ErrInvalidShipping,
	types.ErrInvalidFailureRate,
	types.ErrInvalidDelay,
	types.ErrInvalidProduct,
	types.ErrDuplicateProduct,
	types.ErrInvalidPrice,
}

func isUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	if isUserError(err) {
		return exitUserError
	}
	return exitSysError
}
