package ledger

// Withdrawals charge a fixed fee on top of the requested amount; the fee is
// recorded as system revenue.
const WithdrawFee = 15.0

// Points accrue at 1 point per PointsPerAmount deposited, rounded down.
const PointsPerAmount = 1000.0

// Receipt summarizes a completed balance-affecting operation.
type Receipt struct {
	Reference    string  `json:"reference"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	Fee          float64 `json:"fee,omitempty"`
	Balance      float64 `json:"balance"`
	PointsEarned int     `json:"points_earned,omitempty"`
}
