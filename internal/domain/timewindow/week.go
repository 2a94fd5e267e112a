// Package timewindow computes the fixed weekly reporting buckets.
//
// The business week runs Saturday 00:00 to Friday 23:59:59.999 in Riyadh
// time, modeled as a fixed UTC+3 offset (Saudi Arabia has no DST). The
// arithmetic below is the bucket-boundary contract: changing it moves orders
// between snapshots, so it must stay byte-stable across runs and machines,
// with no reliance on the host timezone.
package timewindow

import "time"

const (
	// RiyadhOffsetMillis is the fixed UTC+3 offset in milliseconds.
	RiyadhOffsetMillis int64 = 3 * 60 * 60 * 1000

	dayMillis int64 = 24 * 60 * 60 * 1000
)

// Window is a closed weekly range in epoch milliseconds.
// End is inclusive: start of next week minus one millisecond.
type Window struct {
	Start int64 `json:"timeRangeStart"`
	End   int64 `json:"timeRangeEnd"`
}

// CurrentWeek returns the week containing nowMillis (epoch ms UTC).
//
// Steps: shift into Riyadh local time, read the UTC weekday of the shifted
// instant (0=Sunday..6=Saturday), walk back (weekday+1) mod 7 days from local
// midnight, then undo the shift.
func CurrentWeek(nowMillis int64) Window {
	shifted := time.UnixMilli(nowMillis + RiyadhOffsetMillis).UTC()
	daysSinceSaturday := (int64(shifted.Weekday()) + 1) % 7

	localMidnightUTC := time.Date(
		shifted.Year(), shifted.Month(), shifted.Day(),
		0, 0, 0, 0, time.UTC,
	).UnixMilli() - RiyadhOffsetMillis

	start := localMidnightUTC - daysSinceSaturday*dayMillis
	return Window{
		Start: start,
		End:   start + 7*dayMillis - 1,
	}
}

// PreviousWeek returns the week immediately before the one containing nowMillis.
func PreviousWeek(nowMillis int64) Window {
	cur := CurrentWeek(nowMillis)
	return Window{Start: cur.Start - 7*dayMillis, End: cur.Start - 1}
}

// Contains reports whether ts (epoch ms) falls inside the window.
func (w Window) Contains(ts int64) bool {
	return ts >= w.Start && ts <= w.End
}
