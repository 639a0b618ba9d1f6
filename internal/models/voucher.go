package models

import "time"

// Voucher is a redeemable credit issued to one user. A voucher is consumed
// exactly once on redemption; expired vouchers stay in the active set until
// a redemption attempt observes them.
type Voucher struct {
	Owner  string    `json:"owner"`
	Code   string    `json:"code"`
	Value  float64   `json:"value"`
	Expiry time.Time `json:"expiry"`
}

// Expired reports whether the voucher can no longer be redeemed. The expiry
// day itself still counts as valid.
func (v Voucher) Expired(today time.Time) bool {
	y1, m1, d1 := v.Expiry.Date()
	y2, m2, d2 := today.Date()
	expiry := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	day := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return expiry.Before(day)
}
