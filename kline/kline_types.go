package kline

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Resolution is the aggregation period of a bar
type Resolution time.Duration

// Supported bar resolutions
const (
	OneSec  = Resolution(time.Second)
	OneMin  = Resolution(time.Minute)
	OneHour = Resolution(time.Hour)
	OneDay  = Resolution(time.Hour * 24)
)

// PriceSide denotes which side of the book a bar series was aggregated from
type PriceSide string

// Supported price sides
const (
	Bid PriceSide = "BID"
	Ask PriceSide = "ASK"
)

var (
	errUnsetInterval   = errors.New("cannot process unset resolution")
	errSeriesUnordered = errors.New("bar series must be in ascending chronological order")
	errTicksUnordered  = errors.New("tick series must be in ascending chronological order")
)

// Bar is an immutable OHLCV aggregate closing at Time
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Tick is an immutable top of book snapshot at Time
type Tick struct {
	Time    time.Time
	Bid     decimal.Decimal
	Ask     decimal.Decimal
	BidSize decimal.Decimal
	AskSize decimal.Decimal
}

// BarType is the subscription key for a bar series, the combination of an
// instrument symbol, a resolution and a price side
type BarType struct {
	Symbol     string
	Resolution Resolution
	Side       PriceSide
}
