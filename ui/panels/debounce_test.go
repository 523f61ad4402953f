package panels

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var calls int32
	for i := 0; i < 5; i++ {
		d.Call(func() { atomic.AddInt32(&calls, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected 1 call after burst, got %d", got)
	}
}

func TestDebouncerFiresAgainAfterSettle(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var calls int32
	d.Call(func() { atomic.AddInt32(&calls, 1) })
	time.Sleep(60 * time.Millisecond)
	d.Call(func() { atomic.AddInt32(&calls, 1) })
	time.Sleep(60 * time.Millisecond)

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected 2 calls across separate bursts, got %d", got)
	}
}
