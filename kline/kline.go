package kline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Duration returns the resolution as a time.Duration
func (r Resolution) Duration() time.Duration {
	return time.Duration(r)
}

// String implements the stringer interface
func (r Resolution) String() string {
	switch r {
	case OneSec:
		return "1s"
	case OneMin:
		return "1m"
	case OneHour:
		return "1h"
	case OneDay:
		return "1d"
	default:
		return r.Duration().String()
	}
}

// Validate checks the resolution is set
func (r Resolution) Validate() error {
	if r <= 0 {
		return errUnsetInterval
	}
	return nil
}

// String implements the stringer interface
func (s PriceSide) String() string {
	return string(s)
}

// String implements the stringer interface, eg `USDJPY-1m-BID`
func (b BarType) String() string {
	return fmt.Sprintf("%s-%s-%s", b.Symbol, b.Resolution, b.Side)
}

// Mid returns the midpoint of the tick's bid and ask prices
func (t *Tick) Mid() decimal.Decimal {
	return t.Bid.Add(t.Ask).Div(decimal.NewFromInt(2))
}

// ValidateBars ensures a bar series is in strictly ascending chronological
// order so cursor iteration can rely on ordering
func ValidateBars(bars []Bar) error {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Time.After(bars[i-1].Time) {
			return fmt.Errorf("%w: %v at index %v", errSeriesUnordered, bars[i].Time, i)
		}
	}
	return nil
}

// ValidateTicks ensures a tick series is in ascending chronological order.
// Equal timestamps are permitted as multiple ticks can share an instant
func ValidateTicks(ticks []Tick) error {
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Time.Before(ticks[i-1].Time) {
			return fmt.Errorf("%w: %v at index %v", errTicksUnordered, ticks[i].Time, i)
		}
	}
	return nil
}
