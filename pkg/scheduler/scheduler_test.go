package scheduler_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-siteform/pkg/scheduler"
	"github.com/goliatone/go-siteform/pkg/testsupport"
)

func TestDebounceCollapsesBursts(t *testing.T) {
	sched := testsupport.NewFakeScheduler()
	calls := 0
	debounced := scheduler.Debounce(sched, 150*time.Millisecond, func() { calls++ })

	debounced()
	sched.Advance(100 * time.Millisecond)
	debounced()
	sched.Advance(100 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("debounced call ran early: %d", calls)
	}
	sched.Advance(50 * time.Millisecond)
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
	sched.Advance(time.Second)
	if calls != 1 {
		t.Fatalf("expected no further calls, got %d", calls)
	}
}

func TestClockRunsCallbacks(t *testing.T) {
	clock := scheduler.New()
	done := make(chan struct{})
	clock.NextFrame(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("next frame callback did not run")
	}

	timer := clock.AfterFunc(time.Hour, func() { t.Error("stopped timer ran") })
	if !timer.Stop() {
		t.Fatalf("expected Stop to cancel a pending timer")
	}
}
