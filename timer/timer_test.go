package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// waitFired waits for one value on ch or fails the test.
func waitFired(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("callback did not fire")
	}
}

// expectQuiet fails if ch receives within a short grace period.
func expectQuiet(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("callback fired unexpectedly")
	case <-time.After(30 * time.Millisecond):
	}
}

func TestTimerScheduleFiresAfterDelay(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock)
	fired := make(chan struct{}, 4)

	tm.Schedule(3*time.Second, func() { fired <- struct{}{} })
	if !tm.Pending() {
		t.Fatal("Pending() = false after Schedule")
	}

	clock.Advance(2999 * time.Millisecond)
	expectQuiet(t, fired)

	clock.Advance(time.Millisecond)
	waitFired(t, fired)
	expectQuiet(t, fired)
	if tm.Pending() {
		t.Fatal("Pending() = true after callback ran")
	}
}

func TestTimerRescheduleReplacesPending(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock)
	first := make(chan struct{}, 1)
	second := make(chan struct{}, 1)

	tm.Schedule(time.Second, func() { first <- struct{}{} })
	clock.Advance(500 * time.Millisecond)
	tm.Schedule(time.Second, func() { second <- struct{}{} })

	clock.Advance(500 * time.Millisecond)
	expectQuiet(t, first)
	expectQuiet(t, second)

	clock.Advance(500 * time.Millisecond)
	waitFired(t, second)
	expectQuiet(t, first)
}

func TestTimerCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tm := New(clock)
	fired := make(chan struct{}, 1)

	if tm.Cancel() {
		t.Fatal("Cancel() on idle timer = true")
	}
	tm.Schedule(time.Second, func() { fired <- struct{}{} })
	if !tm.Cancel() {
		t.Fatal("Cancel() on pending timer = false")
	}
	clock.Advance(2 * time.Second)
	expectQuiet(t, fired)
}

func TestTimerRealClock(t *testing.T) {
	tm := New(nil)
	fired := make(chan struct{}, 1)
	tm.Schedule(5*time.Millisecond, func() { fired <- struct{}{} })
	waitFired(t, fired)
}

func TestDebounceBurstRunsOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	var runs atomic.Int32
	fired := make(chan struct{}, 8)
	d := NewDebouncer(clock, 100*time.Millisecond, func() {
		runs.Add(1)
		fired <- struct{}{}
	})

	for i := 0; i < 5; i++ {
		d.Trigger()
		clock.Advance(40 * time.Millisecond)
	}
	// Last trigger happened 40ms ago; the window closes 60ms from now.
	clock.Advance(59 * time.Millisecond)
	expectQuiet(t, fired)

	clock.Advance(time.Millisecond)
	waitFired(t, fired)
	expectQuiet(t, fired)
	if got := runs.Load(); got != 1 {
		t.Fatalf("runs = %d, want 1", got)
	}
}

func TestDebounceSeparateBursts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired := make(chan struct{}, 8)
	trigger := Debounce(clock, 100*time.Millisecond, func() { fired <- struct{}{} })

	trigger()
	clock.Advance(100 * time.Millisecond)
	waitFired(t, fired)

	trigger()
	trigger()
	clock.Advance(100 * time.Millisecond)
	waitFired(t, fired)
	expectQuiet(t, fired)
}

func TestDebounceStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	fired := make(chan struct{}, 1)
	d := NewDebouncer(clock, 100*time.Millisecond, func() { fired <- struct{}{} })

	d.Trigger()
	if !d.Pending() {
		t.Fatal("Pending() = false after Trigger")
	}
	d.Stop()
	clock.Advance(time.Second)
	expectQuiet(t, fired)
}
