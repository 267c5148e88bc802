// Package limiter provides a fair, bounded concurrency limiter.
//
// A Limiter admits at most N concurrently executing units of work. Additional
// callers queue up and are admitted strictly in arrival order, one per
// release. Unlike a plain buffered-channel semaphore, the explicit waiter
// queue makes the FIFO admission order an invariant rather than an accident
// of the runtime scheduler.
//
// Multiple independent Limiter instances may be nested: a task admitted by an
// outer limiter may acquire a second, narrower limiter before calling a
// rate-sensitive downstream service.
package limiter

import (
	"context"
	"sync"
)

// Limiter bounds the number of in-flight units of work sharing a resource.
//
// The zero value is not usable; construct instances with New.
type Limiter struct {
	mu       sync.Mutex
	capacity int
	active   int
	// waiters is the FIFO admission queue. Each entry is closed by Release
	// to hand the freed slot to exactly one waiter.
	waiters []chan struct{}
}

// New returns a Limiter that admits at most capacity concurrent units of work.
// It panics if capacity is less than one, as such a limiter could never admit
// anything.
func New(capacity int) *Limiter {
	if capacity < 1 {
		panic("limiter: capacity must be at least 1")
	}
	return &Limiter{capacity: capacity}
}

// Acquire blocks until a slot is available or the context is canceled.
//
// If fewer than capacity units are active, the caller is admitted
// immediately. Otherwise it joins the waiter queue and is admitted in FIFO
// order as slots free up. A nil error means the caller holds a slot and must
// eventually call Release exactly once.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	if l.active < l.capacity {
		l.active++
		l.mu.Unlock()
		return nil
	}

	// All slots are busy, join the queue.
	ready := make(chan struct{})
	l.waiters = append(l.waiters, ready)
	l.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		for i, waiter := range l.waiters {
			if waiter == ready {
				// Still queued. Withdraw and report cancellation.
				l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
				l.mu.Unlock()
				return ctx.Err()
			}
		}
		l.mu.Unlock()

		// The slot was granted between cancellation and locking.
		// Hand it on so it is not lost.
		l.Release()
		return ctx.Err()
	}
}

// Release frees a slot previously obtained via Acquire.
//
// If anyone is queued, the slot transfers directly to the oldest waiter and
// the active count is unchanged. Release panics when called without a
// matching Acquire, as that always indicates a bookkeeping bug in the caller.
func (l *Limiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.waiters) > 0 {
		next := l.waiters[0]
		l.waiters = l.waiters[1:]
		close(next)
		return
	}

	if l.active == 0 {
		panic("limiter: Release called without a matching Acquire")
	}
	l.active--
}

// Run executes task under an acquired slot.
//
// The slot is released unconditionally once task returns, so a failing task
// can never deadlock the pool. The task's own error is returned as-is; an
// acquisition failure (context cancellation while queued) is returned without
// invoking the task at all.
func (l *Limiter) Run(ctx context.Context, task func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return task()
}
