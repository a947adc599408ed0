// Package eventloop runs posted functions one at a time on a single
// goroutine. A quiz session owns one loop so that input events and timer
// ticks never interleave.
package eventloop

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"quiz-widget/internal/timer"
)

// Loop serializes work onto the goroutine running Run.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	stopped sync.Once
}

// New returns a loop with the given queue size.
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and reports false once
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued functions until ctx is canceled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Stop ends Run. Queued functions that have not started are dropped.
func (l *Loop) Stop() {
	l.stopped.Do(func() { close(l.done) })
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Every implements timer.Scheduler. The ticker runs on its own goroutine
// but fn always runs inside the loop, and is skipped once the handle has
// been canceled.
func (l *Loop) Every(interval time.Duration, fn func()) timer.Handle {
	h := &tickHandle{stop: make(chan struct{})}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				posted := l.Post(func() {
					if h.canceled.Load() {
						return
					}
					fn()
				})
				if !posted {
					return
				}
			case <-h.stop:
				return
			case <-l.done:
				return
			}
		}
	}()
	return h
}

type tickHandle struct {
	canceled atomic.Bool
	once     sync.Once
	stop     chan struct{}
}

func (h *tickHandle) Cancel() {
	h.canceled.Store(true)
	h.once.Do(func() { close(h.stop) })
}
