// Package scheduler abstracts the timer primitives the page components use in
// place of setTimeout and requestAnimationFrame.
package scheduler

import (
	"sync"
	"time"
)

// FrameInterval approximates one animation frame at 60Hz.
const FrameInterval = 16 * time.Millisecond

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports false when the callback already
	// ran or was stopped.
	Stop() bool
}

// Scheduler runs callbacks later. Callbacks may run on any goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	NextFrame(fn func()) Timer
}

// Clock is the real-time Scheduler backed by time.AfterFunc.
type Clock struct{}

// New returns the real-time scheduler.
func New() Clock {
	return Clock{}
}

// AfterFunc runs fn after d.
func (Clock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// NextFrame runs fn after one frame interval.
func (Clock) NextFrame(fn func()) Timer {
	return time.AfterFunc(FrameInterval, fn)
}

// Debounce wraps fn so bursts of calls collapse into one call made d after the
// last call, like the resize handler pattern clearTimeout + setTimeout.
func Debounce(s Scheduler, d time.Duration, fn func()) func() {
	var (
		mu      sync.Mutex
		pending Timer
	)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if pending != nil {
			pending.Stop()
		}
		pending = s.AfterFunc(d, fn)
	}
}
