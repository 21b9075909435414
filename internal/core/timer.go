package core

import "time"

// FixedStep gates work driven from a frame loop to a steady interval. Missed
// intervals are dropped rather than replayed, so a slow frame never causes a
// burst of catch-up steps.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep that fires at most once per interval.
// The first call to ShouldStep always fires.
func NewFixedStep(interval time.Duration) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetInterval(interval)
	fs.accumulator = fs.step
	return fs
}

// SetInterval changes the step length. It is safe to call from the main loop.
func (f *FixedStep) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second / 60
	}
	f.step = interval
}

// Interval returns the configured step length.
func (f *FixedStep) Interval() time.Duration { return f.step }

// ShouldStep reports whether a full interval has elapsed since the last step.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator < f.step {
		return false
	}
	f.accumulator -= f.step
	if f.accumulator >= f.step {
		f.accumulator = 0
	}
	return true
}
