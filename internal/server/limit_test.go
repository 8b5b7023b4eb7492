package server

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLimiter_BoundsConcurrency(t *testing.T) {
	l := newLimiter(3)

	var peak, current int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !l.acquire(context.Background()) {
				t.Error("acquire failed unexpectedly")
				return
			}
			c := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if c <= old || atomic.CompareAndSwapInt32(&peak, old, c) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			l.release()
		}()
	}
	wg.Wait()

	if peak > 3 {
		t.Errorf("peak concurrency %d exceeded limit 3", peak)
	}
	if l.inUse() != 0 {
		t.Errorf("inUse = %d after all releases", l.inUse())
	}
}

func TestLimiter_Nil(t *testing.T) {
	var l *limiter
	if !l.acquire(context.Background()) {
		t.Error("nil limiter refused a slot")
	}
	l.release()
	if l.capacity() != 0 || l.inUse() != 0 {
		t.Errorf("nil limiter capacity/inUse = %d/%d", l.capacity(), l.inUse())
	}
	if newLimiter(0) != nil {
		t.Error("newLimiter(0) should be unlimited")
	}
}

func TestLimiter_CancelledWait(t *testing.T) {
	l := newLimiter(1)
	l.acquire(context.Background())
	defer l.release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if l.acquire(ctx) {
		t.Error("acquire succeeded on a full limiter")
	}
}
