package timer

import (
	"sort"
	"time"
)

// ManualScheduler is a Scheduler driven by Advance instead of wall time.
// Callbacks run on the goroutine calling Advance.
type ManualScheduler struct {
	now     time.Duration
	seq     int
	entries []*manualEntry
}

type manualEntry struct {
	interval time.Duration
	next     time.Duration
	fn       func()
	canceled bool
	seq      int
}

func (e *manualEntry) Cancel() {
	e.canceled = true
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every implements Scheduler.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) Handle {
	e := &manualEntry{
		interval: interval,
		next:     s.now + interval,
		fn:       fn,
		seq:      s.seq,
	}
	s.seq++
	s.entries = append(s.entries, e)
	return e
}

// Advance moves the clock forward by d, firing every callback that falls
// due in order.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		e := s.nextDue(target)
		if e == nil {
			break
		}
		s.now = e.next
		e.next += e.interval
		e.fn()
	}
	s.now = target
	s.compact()
}

// Active returns the number of installed, uncanceled callbacks.
func (s *ManualScheduler) Active() int {
	n := 0
	for _, e := range s.entries {
		if !e.canceled {
			n++
		}
	}
	return n
}

// Now returns the elapsed manual time.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualEntry {
	var due []*manualEntry
	for _, e := range s.entries {
		if !e.canceled && e.next <= target {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next != due[j].next {
			return due[i].next < due[j].next
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (s *ManualScheduler) compact() {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if !e.canceled {
			kept = append(kept, e)
		}
	}
	s.entries = kept
}
