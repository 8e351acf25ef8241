package testsupport

import (
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-siteform/pkg/scheduler"
)

// FakeScheduler is a manual clock for tests. Callbacks only run inside Advance
// or Flush, on the calling goroutine, in due-time order.
type FakeScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	s       *FakeScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

var _ scheduler.Scheduler = (*FakeScheduler)(nil)

// NewFakeScheduler returns a scheduler positioned at zero.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// AfterFunc schedules fn to run once the clock has advanced by d.
func (s *FakeScheduler) AfterFunc(d time.Duration, fn func()) scheduler.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &fakeTimer{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// NextFrame schedules fn one frame interval ahead.
func (s *FakeScheduler) NextFrame(fn func()) scheduler.Timer {
	return s.AfterFunc(scheduler.FrameInterval, fn)
}

// Now returns the elapsed fake time.
func (s *FakeScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Pending reports how many callbacks are still scheduled.
func (s *FakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Advance moves the clock forward by d, running every callback that falls due,
// including ones scheduled by callbacks along the way.
func (s *FakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()
	for s.runNext(target) {
	}
	s.mu.Lock()
	if s.now < target {
		s.now = target
	}
	s.mu.Unlock()
}

// Flush runs callbacks until none remain or limit callbacks have run. It
// returns the number of callbacks executed.
func (s *FakeScheduler) Flush(limit int) int {
	ran := 0
	for ran < limit && s.runNext(-1) {
		ran++
	}
	return ran
}

// runNext pops and runs the earliest timer due at or before target; a
// negative target accepts any timer.
func (s *FakeScheduler) runNext(target time.Duration) bool {
	s.mu.Lock()
	if len(s.timers) == 0 {
		s.mu.Unlock()
		return false
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].at == s.timers[j].at {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].at < s.timers[j].at
	})
	next := s.timers[0]
	if target >= 0 && next.at > target {
		s.mu.Unlock()
		return false
	}
	s.timers = s.timers[1:]
	next.fired = true
	if next.at > s.now {
		s.now = next.at
	}
	s.mu.Unlock()

	if next.fn != nil {
		next.fn()
	}
	return true
}

func (t *fakeTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	for i, candidate := range t.s.timers {
		if candidate == t {
			t.s.timers = append(t.s.timers[:i], t.s.timers[i+1:]...)
			break
		}
	}
	return true
}
