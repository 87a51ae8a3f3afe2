package cadence

import (
	"sort"
	"sync"
	"time"
)

// Manual is a scheduler driven by explicit Advance calls, for tests and for
// hosts that step time from their own frame loop.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	counter uint64
	entries []*manualEntry
}

type manualEntry struct {
	seq       uint64
	period    time.Duration
	next      time.Time
	fn        func()
	cancelled bool
	owner     *Manual
}

// NewManual creates a manual scheduler starting at the given time.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now implements Clock.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Every implements Scheduler.
func (m *Manual) Every(period time.Duration, fn func()) Handle {
	if period <= 0 {
		panic("cadence: non-positive period")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	e := &manualEntry{
		seq:    m.counter,
		period: period,
		next:   m.now.Add(period),
		fn:     fn,
		owner:  m,
	}
	m.entries = append(m.entries, e)
	return e
}

// Cancel implements Handle.
func (e *manualEntry) Cancel() {
	m := e.owner
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.cancelled {
		return
	}
	e.cancelled = true
	for i, other := range m.entries {
		if other == e {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			break
		}
	}
}

// Active returns the number of scheduled, uncancelled entries.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Advance moves time forward by d and runs every callback that falls due,
// in time order. Callbacks run without the scheduler lock held, so they may
// schedule or cancel work. It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	fired := 0
	for {
		e := m.nextDue(target)
		if e == nil {
			break
		}
		e.fn()
		fired++
	}

	m.mu.Lock()
	m.now = target
	m.mu.Unlock()
	return fired
}

// Tick advances time to the earliest pending callback and runs it. It
// returns false when nothing is scheduled.
func (m *Manual) Tick() bool {
	m.mu.Lock()
	if len(m.entries) == 0 {
		m.mu.Unlock()
		return false
	}
	earliest := m.entries[0].next
	for _, e := range m.entries[1:] {
		if e.next.Before(earliest) {
			earliest = e.next
		}
	}
	d := earliest.Sub(m.now)
	m.mu.Unlock()

	return m.Advance(d) > 0
}

// nextDue pops the earliest entry due at or before target, moves the clock
// to its due time and reschedules it.
func (m *Manual) nextDue(target time.Time) *manualEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []*manualEntry
	for _, e := range m.entries {
		if !e.next.After(target) {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next.Equal(due[j].next) {
			return due[i].seq < due[j].seq
		}
		return due[i].next.Before(due[j].next)
	})

	e := due[0]
	m.now = e.next
	e.next = e.next.Add(e.period)
	return e
}
