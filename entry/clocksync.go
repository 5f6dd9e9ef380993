package entry

import (
	"time"
)

// NewClockSync builds a ClockSync describing the system clock at now:
// the clock value is the nanosecond wall reading, so the frequency is
// one gigahertz and readers can translate clock values directly.
func NewClockSync(now time.Time) ClockSync {
	zone, offset := now.Zone()
	return ClockSync{
		ClockValue:     uint64(now.UnixNano()),
		ClockFrequency: 1e9,
		NsSinceEpoch:   now.UnixNano(),
		TzOffset:       int32(offset),
		TzName:         zone,
	}
}
