// Package cycle maps calendar dates onto the repeating weekly menu
// rotation. The rotation is anchored at an externally configured epoch;
// a wrong epoch silently shifts every lookup by whole cycles, so deploys
// should validate it against at least one known ground-truth date.
package cycle

import (
	"strconv"
	"time"
)

const DefaultCycleLengthDays = 7

// Resolve returns the cycle identifier ("0".."N-1") and weekday name
// for a date under an N-cycle, 7-day rotation anchored at epoch.
func Resolve(date, epoch time.Time, cycleCount int) (string, string) {
	return ResolveWithLength(date, epoch, cycleCount, DefaultCycleLengthDays)
}

func ResolveWithLength(date, epoch time.Time, cycleCount, cycleLengthDays int) (string, string) {
	delta := daysBetween(epoch, date)

	// floor division so dates before the epoch still land on a valid
	// non-negative cycle index
	idx := floorDiv(delta, cycleLengthDays) % cycleCount
	if idx < 0 {
		idx += cycleCount
	}

	return strconv.Itoa(idx), date.Weekday().String()
}

// daysBetween counts whole civil days from a to b, ignoring the clock
// and any DST oddities within either day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au) / (24 * time.Hour))
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
