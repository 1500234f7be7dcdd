package kline

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestResolutionString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1s", OneSec.String())
	assert.Equal(t, "1m", OneMin.String())
	assert.Equal(t, "1h", OneHour.String())
	assert.Equal(t, "1d", OneDay.String())
}

func TestResolutionValidate(t *testing.T) {
	t.Parallel()
	assert.NoError(t, OneMin.Validate())
	assert.Error(t, Resolution(0).Validate())
}

func TestBarTypeString(t *testing.T) {
	t.Parallel()
	bt := BarType{Symbol: "USDJPY", Resolution: OneMin, Side: Bid}
	assert.Equal(t, "USDJPY-1m-BID", bt.String())
}

func TestTickMid(t *testing.T) {
	t.Parallel()
	tick := Tick{
		Bid: decimal.NewFromFloat(86.710),
		Ask: decimal.NewFromFloat(86.712),
	}
	assert.True(t, tick.Mid().Equal(decimal.NewFromFloat(86.711)))
}

func TestValidateBars(t *testing.T) {
	t.Parallel()
	start := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := []Bar{
		{Time: start},
		{Time: start.Add(time.Minute)},
		{Time: start.Add(2 * time.Minute)},
	}
	assert.NoError(t, ValidateBars(bars))
	assert.NoError(t, ValidateBars(nil))

	bars[2].Time = start
	assert.Error(t, ValidateBars(bars))

	bars[2].Time = start.Add(time.Minute)
	assert.Error(t, ValidateBars(bars))
}

func TestValidateTicks(t *testing.T) {
	t.Parallel()
	start := time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)
	ticks := []Tick{
		{Time: start},
		{Time: start},
		{Time: start.Add(time.Second)},
	}
	assert.NoError(t, ValidateTicks(ticks))

	ticks[2].Time = start.Add(-time.Second)
	assert.Error(t, ValidateTicks(ticks))
}
