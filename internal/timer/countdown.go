// Package timer implements a restartable countdown driven by an injected
// scheduler, plus helpers for splitting second counts into clock units.
package timer

import "time"

// DefaultInterval is the time between two ticks of a countdown.
const DefaultInterval = time.Second

// Countdown reports the remaining seconds once per interval and fires a
// completion callback when it reaches zero. A Countdown is not safe for
// concurrent use; drive it from the scheduler's goroutine.
type Countdown struct {
	initial    int
	remaining  int
	onTick     func(remaining int)
	onComplete func()

	scheduler Scheduler
	interval  time.Duration
	handle    Handle
	// generation invalidates ticks queued by a handle that was replaced.
	generation int
}

// StartOption overrides part of the stored configuration on Start.
type StartOption func(*Countdown)

// WithSeconds replaces the configured duration. Zero is a valid duration.
func WithSeconds(seconds int) StartOption {
	return func(c *Countdown) { c.initial = seconds }
}

// WithTick replaces the per-tick callback.
func WithTick(onTick func(remaining int)) StartOption {
	return func(c *Countdown) { c.onTick = onTick }
}

// WithComplete replaces the completion callback.
func WithComplete(onComplete func()) StartOption {
	return func(c *Countdown) { c.onComplete = onComplete }
}

// NewCountdown configures a stopped countdown. onTick and onComplete may be nil.
func NewCountdown(seconds int, onTick func(int), onComplete func(), scheduler Scheduler) *Countdown {
	return &Countdown{
		initial:    seconds,
		remaining:  seconds,
		onTick:     onTick,
		onComplete: onComplete,
		scheduler:  scheduler,
		interval:   DefaultInterval,
	}
}

// SetInterval changes the tick period for runs started afterwards.
func (c *Countdown) SetInterval(interval time.Duration) {
	if interval > 0 {
		c.interval = interval
	}
}

// Start applies opts, resets the remaining time to the configured duration
// and begins ticking. The first tick reports the unchanged starting value
// before Start returns.
func (c *Countdown) Start(opts ...StartOption) {
	for _, opt := range opts {
		opt(c)
	}
	c.remaining = c.initial
	c.run()
}

// Continue resumes from the current remaining value. It does nothing once
// the countdown has reached zero; reconfigure and Start instead.
func (c *Countdown) Continue() {
	if c.remaining <= 0 {
		return
	}
	c.run()
}

// Stop halts ticking. Calling it on a stopped countdown is a no-op.
func (c *Countdown) Stop() {
	if c.handle == nil {
		return
	}
	c.handle.Cancel()
	c.handle = nil
	c.generation++
}

// Seconds returns the remaining seconds.
func (c *Countdown) Seconds() int {
	return c.remaining
}

// SetTimeout changes the duration used by later Start calls. A running
// countdown keeps its remaining value.
func (c *Countdown) SetTimeout(seconds int) {
	c.initial = seconds
}

// Timeout returns the configured duration.
func (c *Countdown) Timeout() int {
	return c.initial
}

// Running reports whether a tick source is installed.
func (c *Countdown) Running() bool {
	return c.handle != nil
}

func (c *Countdown) run() {
	c.Stop()
	c.emit(c.remaining)
	if c.remaining <= 0 {
		c.complete()
		return
	}
	gen := c.generation
	c.handle = c.scheduler.Every(c.interval, func() {
		if gen != c.generation {
			return
		}
		c.tick()
	})
}

func (c *Countdown) tick() {
	c.remaining--
	c.emit(c.remaining)
	if c.remaining > 0 {
		return
	}
	// onTick may already have stopped the countdown.
	if c.handle == nil {
		return
	}
	c.Stop()
	c.complete()
}

func (c *Countdown) emit(remaining int) {
	if c.onTick != nil {
		c.onTick(remaining)
	}
}

func (c *Countdown) complete() {
	if c.onComplete != nil {
		c.onComplete()
	}
}
