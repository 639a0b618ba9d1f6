// Package validation checks raw registration and operation input before it
// reaches the services.
package validation

import (
	"errors"
	"strings"
	"unicode"
)

const PINLength = 4

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameFormat   = errors.New("username may only contain letters, digits and underscores")
	ErrMobileRequired   = errors.New("mobile number is required")
	ErrMobileFormat     = errors.New("mobile number contains invalid characters")
	ErrPINFormat        = errors.New("PIN must be exactly 4 digits")
)

// NormalizeUsername lowercases and trims a username the way every lookup
// expects it.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Username validates a normalized username. Accounts persist one record per
// line with comma-delimited fields and no escaping, so anything outside
// [a-z0-9_] is rejected: a newline or comma in a username would let a
// registration forge arbitrary persisted records.
func Username(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	for _, r := range username {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return ErrUsernameFormat
		}
	}
	return nil
}

// Mobile validates a mobile number: digits with an optional +, - or space,
// never a comma or control character (same record-format rule as Username).
func Mobile(mobile string) error {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return ErrMobileRequired
	}
	for _, r := range mobile {
		if !unicode.IsDigit(r) && r != '+' && r != '-' && r != ' ' {
			return ErrMobileFormat
		}
	}
	return nil
}

// PIN validates the 4-digit PIN format.
func PIN(pin string) error {
	if len(pin) != PINLength {
		return ErrPINFormat
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return ErrPINFormat
		}
	}
	return nil
}
