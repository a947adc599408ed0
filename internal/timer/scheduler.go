package timer

import "time"

// Handle is a recurring tick source installed by a Scheduler.
// Cancel must be safe to call more than once.
type Handle interface {
	Cancel()
}

// Scheduler installs recurring callbacks. Implementations run fn on the
// same goroutine that calls Every and Cancel, and never run fn after
// Cancel has returned.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}
