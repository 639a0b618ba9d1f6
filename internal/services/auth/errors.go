package auth

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotPersisted       = errors.New("operation did not persist")
)

// LockedError reports an active PIN lockout and how long it has left.
type LockedError struct {
	MinutesLeft int
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account is locked, try again in %d minute(s)", e.MinutesLeft)
}
