package voucher

import (
	"fmt"
	"time"
)

// holiday is one entry of the fixed month-day table that triggers a shared
// voucher code for every user.
type holiday struct {
	month time.Month
	day   int
	tag   string
}

var holidays = []holiday{
	{time.January, 1, "NEWYEAR"},
	{time.February, 25, "EDSA"},
	{time.April, 9, "KAGITINGAN"},
	{time.June, 12, "KALAYAAN"},
	{time.November, 1, "UNDAS"},
	{time.November, 30, "BONIFACIO"},
	{time.December, 25, "PASKO"},
	{time.December, 30, "RIZAL"},
}

// holidayCode returns the shared voucher code for the given date, e.g.
// "PASKO2026", or false when the date is not a holiday.
func holidayCode(today time.Time) (string, bool) {
	for _, h := range holidays {
		if today.Month() == h.month && today.Day() == h.day {
			return fmt.Sprintf("%s%d", h.tag, today.Year()), true
		}
	}
	return "", false
}
