package ledger

import (
	"errors"
	"fmt"

	"azurewallet/internal/utils"
)

var (
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrSelfTransfer      = errors.New("cannot send money to yourself")
	ErrMerchantRequired  = errors.New("merchant name is required")
	ErrNotPersisted      = errors.New("operation did not persist")
)

// LimitExceededError rejects a non-positive amount or one above the
// account's per-operation ceiling, and carries the ceiling for the caller.
type LimitExceededError struct {
	Limit float64
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("invalid amount or exceeds limit (%s)", utils.FormatAmount(e.Limit))
}
