package fulfillment

import "time"

// Clock abstracts timer creation so the state machine's automatic
// transitions (Searching -> Matched, Completed -> Idle) can be driven by a
// deterministic fake in tests instead of wall-clock timers.
type Clock interface {
	// AfterFunc runs f in its own goroutine after d has elapsed and
	// returns a handle that can cancel the call.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the cancellation handle returned by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the pending call from firing. It reports whether the
	// call was still pending.
	Stop() bool
}

// realClock delegates to the time package.
type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// NewRealClock returns a Clock backed by time.AfterFunc.
func NewRealClock() Clock { return realClock{} }
