package server

import "context"

// limiter bounds how many simulations run at once. A nil limiter admits
// everything.
type limiter struct {
	ch chan struct{}
}

// newLimiter returns a limiter with n slots, or nil when n <= 0.
func newLimiter(n int) *limiter {
	if n <= 0 {
		return nil
	}
	return &limiter{ch: make(chan struct{}, n)}
}

// acquire blocks until a slot frees up or ctx is done. It reports whether a
// slot was taken.
func (l *limiter) acquire(ctx context.Context) bool {
	if l == nil {
		return true
	}
	select {
	case l.ch <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (l *limiter) release() {
	if l == nil {
		return
	}
	<-l.ch
}

// capacity returns the slot count, 0 meaning unlimited.
func (l *limiter) capacity() int {
	if l == nil {
		return 0
	}
	return cap(l.ch)
}

// inUse returns the number of taken slots.
func (l *limiter) inUse() int {
	if l == nil {
		return 0
	}
	return len(l.ch)
}
