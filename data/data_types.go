package data

import (
	"time"

	"github.com/thrasher-corp/backtester/instruments"
	"github.com/thrasher-corp/backtester/kline"
)

// BarHandler receives bar events in non decreasing time order
type BarHandler func(kline.BarType, kline.Bar)

// TickHandler receives tick events in non decreasing time order
type TickHandler func(symbol string, tick kline.Tick)

// Event is a single replayed market data item. Exactly one of Bar and Tick is
// set
type Event struct {
	Time    time.Time
	Symbol  string
	BarType kline.BarType
	Bar     *kline.Bar
	Tick    *kline.Tick
}

// Provider owns one instrument's tick series and per bar type bar series with
// an independent read cursor over each. Series are validated and copied at
// construction so no aliasing with the caller can occur
type Provider struct {
	instrument instruments.Instrument

	ticks      []kline.Tick
	tickCursor int

	barTypes   []kline.BarType
	bars       map[kline.BarType][]kline.Bar
	cursors    map[kline.BarType]int
	iterations map[kline.BarType]int64

	lastUpto    time.Time
	hasIterated bool
}

// BarSubscription is the identity handle returned when registering a bar
// handler, used to unsubscribe
type BarSubscription struct {
	BarType kline.BarType
	fn      BarHandler
}

// TickSubscription is the identity handle returned when registering a tick
// handler, used to unsubscribe
type TickSubscription struct {
	Symbol string
	fn     TickHandler
}

// Client owns one Provider per instrument and merges their outputs into a
// single globally time ordered event stream dispatched to subscribers
type Client struct {
	providers map[string]*Provider
	symbols   []string
	barSubs   map[kline.BarType][]*BarSubscription
	tickSubs  map[string][]*TickSubscription
}
