package querier

import "time"

// MonotonicMillis is a count of milliseconds elapsed on a monotonic clock.
// It is never derived from wall-clock time, so it is immune to clock steps
// (NTP adjustments, manual changes, DST).
type MonotonicMillis uint64

// Clock supplies the current monotonic time to the question planner, so
// that renewal decisions are deterministic and testable.
type Clock interface {
	// Now returns the number of milliseconds elapsed since some fixed,
	// arbitrary epoch. Only differences between two Now() results are
	// meaningful.
	Now() MonotonicMillis
}

// systemClock is the Clock used when none is supplied to a Builder.
type systemClock struct{}

// processEpoch anchors systemClock's millisecond counter. time.Since of a
// time.Time obtained from time.Now() uses the runtime's monotonic reading,
// so this remains correct across wall-clock adjustments.
var processEpoch = time.Now()

// SystemClock is a Clock backed by the monotonic portion of the runtime
// clock.
var SystemClock Clock = systemClock{}

func (systemClock) Now() MonotonicMillis {
	return MonotonicMillis(time.Since(processEpoch).Milliseconds())
}
