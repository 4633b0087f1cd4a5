package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	c := Fake(epoch)
	fired := false
	c.AfterFunc(3*time.Second, func() { fired = true })

	c.Advance(2 * time.Second)
	if fired {
		t.Fatal("timer fired before its deadline")
	}
	c.Advance(time.Second)
	if !fired {
		t.Fatal("timer did not fire at its deadline")
	}
	if got := c.Now(); !got.Equal(epoch.Add(3 * time.Second)) {
		t.Fatalf("Now = %v, want %v", got, epoch.Add(3*time.Second))
	}
}

func TestFakeStopCancelsPendingCall(t *testing.T) {
	c := Fake(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop on a pending timer returned false")
	}
	if timer.Stop() {
		t.Fatal("second Stop returned true")
	}
	c.Advance(time.Minute)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if c.Pending() != 0 {
		t.Fatalf("Pending = %d, want 0", c.Pending())
	}
}

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	c := Fake(epoch)
	var order []int
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })
	c.AfterFunc(time.Second, func() { order = append(order, 1) })

	c.Advance(5 * time.Second)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}
}

func TestFakeCallbackMayScheduleAnotherTimer(t *testing.T) {
	c := Fake(epoch)
	second := false
	c.AfterFunc(time.Second, func() {
		c.AfterFunc(time.Second, func() { second = true })
	})

	c.Advance(time.Second)
	if second {
		t.Fatal("chained timer fired too early")
	}
	c.Advance(time.Second)
	if !second {
		t.Fatal("chained timer did not fire")
	}
}

func TestNilTimerStop(t *testing.T) {
	var timer *Timer
	if timer.Stop() {
		t.Fatal("nil timer Stop returned true")
	}
}
