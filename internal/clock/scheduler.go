// Package clock provides the scheduling substrate for game sessions: delayed
// and periodic callbacks behind cancellable task handles.
//
// Schedulers in this package are not safe for concurrent use. A session and its
// scheduler are driven from a single goroutine, so every callback runs to
// completion before the next one starts.
package clock

import "time"

// Scheduler schedules callbacks against a clock.
type Scheduler interface {
	// Now returns the scheduler's current time.
	Now() time.Time

	// After runs fn once, d after Now. Negative durations are treated as zero.
	After(d time.Duration, fn func()) Task

	// Every runs fn every d, first at Now+d, until the task is cancelled.
	// Non-positive periods are rejected with an inactive task.
	Every(d time.Duration, fn func()) Task
}

// Task is a handle to a scheduled callback.
type Task interface {
	// Cancel stops the task. It returns true if the task was still pending.
	Cancel() bool

	// Active reports whether the task will fire again.
	Active() bool
}

// Stop cancels every non-nil task in the list.
func Stop(tasks ...Task) {
	for _, t := range tasks {
		if t != nil {
			t.Cancel()
		}
	}
}
