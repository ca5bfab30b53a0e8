package utils

import "time"

// Timer measures wall-clock time from its creation or last Start.
type Timer struct {
	start    time.Time
	duration time.Duration
}

// NewTimer returns a running Timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Start restarts the measurement.
func (t *Timer) Start() {
	t.start = time.Now()
}

// Stop records and returns the time elapsed since the last Start.
func (t *Timer) Stop() time.Duration {
	t.duration = time.Since(t.start)
	return t.duration
}

// Duration returns the value captured by the last Stop, or zero.
func (t *Timer) Duration() time.Duration {
	return t.duration
}
