package models

import "time"

// Account is one user's wallet record. Username is the identity and is
// immutable after registration; everything else mutates in place.
type Account struct {
	Username        string    `json:"username"`
	PINHash         string    `json:"-"`
	Mobile          string    `json:"mobile"`
	Balance         float64   `json:"balance"`
	FailedAttempts  int       `json:"-"`
	LockUntil       time.Time `json:"-"` // zero value means not locked
	Rank            Rank      `json:"rank"`
	Points          int       `json:"points"`
	TotalTransacted float64   `json:"total_transacted"`
}

// NewAccount creates a freshly registered account: zero balance, zero
// points, Basic rank.
func NewAccount(username, pinHash, mobile string) *Account {
	return &Account{
		Username: username,
		PINHash:  pinHash,
		Mobile:   mobile,
		Rank:     RankBasic,
	}
}

// IsLocked reports whether the PIN lockout window is still open.
func (a *Account) IsLocked(now time.Time) bool {
	return !a.LockUntil.IsZero() && now.Before(a.LockUntil)
}

// LockMinutesLeft returns the whole minutes remaining in the lockout
// window, at least 1 while locked.
func (a *Account) LockMinutesLeft(now time.Time) int {
	if !a.IsLocked(now) {
		return 0
	}
	mins := int(a.LockUntil.Sub(now).Minutes())
	if mins < 1 {
		mins = 1
	}
	return mins
}

// RecomputeRank refreshes the tier from the lifetime counter.
func (a *Account) RecomputeRank() {
	a.Rank = RankFor(a.TotalTransacted)
}

// Limits returns the operation ceilings for the account's current tier.
func (a *Account) Limits() Limits {
	return a.Rank.Limits()
}
