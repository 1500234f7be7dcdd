package clock

import (
	"errors"
	"time"
)

var errLiveClockImmutable = errors.New("cannot set the time of a live clock")

// Clock is the sole temporal authority during a backtest run. Components must
// not consult any other time source while a run is in progress
type Clock interface {
	Now() time.Time
	SetTime(t time.Time) error
}

// Test is a deterministic clock constructed at an arbitrary start time and
// advanced explicitly. It has no dependency on the host's real time source
type Test struct {
	current time.Time
}

// Live reads the host's real time source. It exists for completeness outside
// of backtest runs and cannot be set
type Live struct{}
