// Package cadence runs repeating, cancellable callbacks.
package cadence

import (
	"sync"
	"time"
)

// Scheduler starts repeating work.
type Scheduler interface {
	// Every calls fn once per period until the returned handle is cancelled.
	// The first call happens one period after Every returns.
	Every(period time.Duration, fn func()) Handle
}

// Handle cancels scheduled work. Cancel is idempotent and never blocks on
// a callback that is currently running.
type Handle interface {
	Cancel()
}

// Clock reports the current time of a scheduler.
type Clock interface {
	Now() time.Time
}

// Ticker schedules work on wall-clock time, one goroutine per handle.
type Ticker struct{}

// NewTicker returns the wall-clock scheduler.
func NewTicker() Ticker {
	return Ticker{}
}

// Now implements Clock.
func (Ticker) Now() time.Time {
	return time.Now()
}

// Every implements Scheduler.
func (Ticker) Every(period time.Duration, fn func()) Handle {
	if period <= 0 {
		panic("cadence: non-positive period")
	}
	h := &tickerHandle{done: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-h.done:
				return
			case <-ticker.C:
				// both may be ready; cancellation wins
				select {
				case <-h.done:
					return
				default:
				}
				fn()
			}
		}
	}()
	return h
}

type tickerHandle struct {
	once sync.Once
	done chan struct{}
}

func (h *tickerHandle) Cancel() {
	h.once.Do(func() { close(h.done) })
}
