package utils

import "time"

// Timer measures the wall-clock time of one operation. [NewTimer] starts it;
// [Timer.Stop] freezes the elapsed duration.
type Timer struct {
	startTime time.Time
	duration  time.Duration
}

// NewTimer returns a running Timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// Start restarts the measurement.
func (t *Timer) Start() {
	t.startTime = time.Now()
	t.duration = 0
}

// Stop records the time elapsed since the last start. Calling it again
// replaces the recorded value.
func (t *Timer) Stop() {
	t.duration = time.Since(t.startTime)
}

// GetDuration returns the duration captured by the last Stop, or zero.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
