package voucher

import "errors"

var (
	ErrVoucherNotFound = errors.New("voucher not found")
	ErrVoucherExpired  = errors.New("voucher expired")
	ErrNotPersisted    = errors.New("operation did not persist")
)
