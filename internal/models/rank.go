package models

// Rank is the loyalty tier derived from an account's lifetime deposit volume.
type Rank int

const (
	RankBasic Rank = iota
	RankSilver
	RankGold
	RankPlatinum
)

// Lifetime-volume thresholds for each tier upgrade.
const (
	SilverThreshold   = 50_000.0
	GoldThreshold     = 150_000.0
	PlatinumThreshold = 500_000.0
)

// Limits holds the per-operation ceilings for a tier.
type Limits struct {
	Deposit  float64 `json:"deposit"`
	Withdraw float64 `json:"withdraw"`
	Send     float64 `json:"send"`
}

var rankLimits = map[Rank]Limits{
	RankBasic:    {Deposit: 10_000, Withdraw: 5_000, Send: 5_000},
	RankSilver:   {Deposit: 25_000, Withdraw: 15_000, Send: 15_000},
	RankGold:     {Deposit: 50_000, Withdraw: 30_000, Send: 30_000},
	RankPlatinum: {Deposit: 100_000, Withdraw: 75_000, Send: 75_000},
}

var monthlyInterestRates = map[Rank]float64{
	RankBasic:    0.001,
	RankSilver:   0.002,
	RankGold:     0.003,
	RankPlatinum: 0.005,
}

// RankFor maps lifetime transacted volume to a tier. The input counter is
// monotone, so a recomputed rank can never go down.
func RankFor(totalTransacted float64) Rank {
	switch {
	case totalTransacted >= PlatinumThreshold:
		return RankPlatinum
	case totalTransacted >= GoldThreshold:
		return RankGold
	case totalTransacted >= SilverThreshold:
		return RankSilver
	default:
		return RankBasic
	}
}

// Limits returns the operation ceilings for the tier.
func (r Rank) Limits() Limits {
	if l, ok := rankLimits[r]; ok {
		return l
	}
	return rankLimits[RankBasic]
}

// MonthlyInterestRate returns the fraction of balance credited by the
// monthly interest sweep.
func (r Rank) MonthlyInterestRate() float64 {
	if rate, ok := monthlyInterestRates[r]; ok {
		return rate
	}
	return monthlyInterestRates[RankBasic]
}

func (r Rank) String() string {
	switch r {
	case RankSilver:
		return "Silver"
	case RankGold:
		return "Gold"
	case RankPlatinum:
		return "Platinum"
	default:
		return "Basic"
	}
}

// ParseRank maps a persisted rank label back to its tier. Unknown labels
// fall back to Basic rather than failing the record.
func ParseRank(s string) Rank {
	switch s {
	case "Silver":
		return RankSilver
	case "Gold":
		return RankGold
	case "Platinum":
		return RankPlatinum
	default:
		return RankBasic
	}
}

// MarshalJSON renders the rank as its label.
func (r Rank) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}
