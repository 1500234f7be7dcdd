package clock

import (
	"fmt"
	"time"

	"github.com/thrasher-corp/backtester/common"
)

// NewTest returns a deterministic clock set to the supplied start time
func NewTest(start time.Time) *Test {
	return &Test{current: start}
}

// Now returns the clock's current time
func (t *Test) Now() time.Time {
	return t.current
}

// SetTime advances the clock. The new time must be strictly greater than the
// current time
func (t *Test) SetTime(to time.Time) error {
	if !to.After(t.current) {
		return fmt.Errorf("%w: %v is not after %v", common.ErrTimeRegression, to, t.current)
	}
	t.current = to
	return nil
}

// Step advances the clock by the supplied duration
func (t *Test) Step(d time.Duration) error {
	return t.SetTime(t.current.Add(d))
}

// Now returns the host's current time in UTC
func (l *Live) Now() time.Time {
	return time.Now().UTC()
}

// SetTime always fails, a live clock advances by itself
func (l *Live) SetTime(_ time.Time) error {
	return errLiveClockImmutable
}
