package government

import (
	"errors"
	"fmt"
)

// Stable error taxonomy surfaced by the treasury core. Callers match with
// errors.Is; everything else that escapes is a storage failure wrapping the
// original cause.
var (
	ErrValidation           = errors.New("validation failed")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrNotConfigured        = errors.New("guild is not configured")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrMonthlyIssuanceLimit = errors.New("monthly issuance limit exceeded")
	ErrStorage              = errors.New("storage failure")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storagef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrStorage, fmt.Sprintf(format, args...))
}
