// Package emacross implements a fast/slow exponential moving average
// crossover strategy with an ATR derived stop distance
package emacross

import (
	"github.com/shopspring/decimal"
	"github.com/thrasher-corp/gct-ta/indicators"

	"github.com/thrasher-corp/backtester/kline"
	"github.com/thrasher-corp/backtester/order"
	"github.com/thrasher-corp/backtester/strategies"
	"github.com/thrasher-corp/backtester/strategies/base"
)

// Name is the strategy name
const Name = "emacross"

// Strategy is an implementation of the strategies.Handler interface. A buy is
// raised when the fast EMA crosses above the slow EMA and a sell when it
// crosses below
type Strategy struct {
	base.Strategy
	barType      kline.BarType
	positionSize decimal.Decimal
	fastPeriod   int
	slowPeriod   int
	atrPeriod    int

	closes []float64
	highs  []float64
	lows   []float64

	// FastEMAUpdates counts how many bars have updated the fast EMA, exposed
	// for diagnostics
	FastEMAUpdates int64

	stopID    string
	lastAbove bool
	primed    bool
}

// New returns an EMA cross strategy subscribed to the supplied bar type
func New(barType kline.BarType, positionSize decimal.Decimal, fastPeriod, slowPeriod, atrPeriod int) *Strategy {
	return &Strategy{
		barType:      barType,
		positionSize: positionSize,
		fastPeriod:   fastPeriod,
		slowPeriod:   slowPeriod,
		atrPeriod:    atrPeriod,
	}
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// BarTypes returns the strategy's bar subscriptions
func (s *Strategy) BarTypes() []kline.BarType {
	return []kline.BarType{s.barType}
}

// OnBar updates indicator state and trades the crossover
func (s *Strategy) OnBar(barType kline.BarType, bar kline.Bar) {
	if barType != s.barType {
		return
	}
	s.closes = append(s.closes, bar.Close.InexactFloat64())
	s.highs = append(s.highs, bar.High.InexactFloat64())
	s.lows = append(s.lows, bar.Low.InexactFloat64())
	s.FastEMAUpdates++

	if len(s.closes) < s.slowPeriod || len(s.closes) <= s.atrPeriod {
		return
	}

	fast := indicators.EMA(s.closes, s.fastPeriod)
	slow := indicators.EMA(s.closes, s.slowPeriod)
	above := fast[len(fast)-1] > slow[len(slow)-1]
	if !s.primed {
		s.primed = true
		s.lastAbove = above
		return
	}
	if above == s.lastAbove {
		return
	}
	s.lastAbove = above

	side := order.Sell
	if above {
		side = order.Buy
	}
	exec := s.Executor()
	if exec == nil {
		return
	}
	// retire the previous protective stop before reversing, a stale stop left
	// working would fill against the new exposure later. It may already have
	// filled, in which case the cancel reports not found and there is nothing
	// to retire
	if s.stopID != "" {
		_ = exec.CancelOrder(s.stopID)
		s.stopID = ""
	}
	quantity := s.positionSize
	// reverse an opposing position in the same order
	pos := exec.Position(s.barType.Symbol)
	if !pos.Quantity.IsZero() {
		quantity = quantity.Add(pos.Quantity.Abs())
	}
	o, err := order.NewMarket(s.barType.Symbol, side, quantity, bar.Time)
	if err != nil {
		return
	}
	// rejection is recorded on the order book, nothing to escalate
	if err = exec.SubmitOrder(o); err != nil {
		return
	}
	s.placeStop(side, bar)
}

// placeStop protects the new exposure with a stop order two ATRs away from
// the latest close
func (s *Strategy) placeStop(entry order.Side, bar kline.Bar) {
	atr := indicators.ATR(s.highs, s.lows, s.closes, s.atrPeriod)
	distance := decimal.NewFromFloat(atr[len(atr)-1]).Mul(decimal.NewFromInt(2))
	if distance.LessThanOrEqual(decimal.Zero) {
		return
	}
	stopSide := order.Sell
	stopPrice := bar.Close.Sub(distance)
	if entry == order.Sell {
		stopSide = order.Buy
		stopPrice = bar.Close.Add(distance)
	}
	o, err := order.New(s.barType.Symbol, stopSide, order.Stop, s.positionSize, stopPrice, bar.Time)
	if err != nil {
		return
	}
	if s.Executor().SubmitOrder(o) == nil {
		s.stopID = o.ID
	}
}

var _ strategies.Handler = (*Strategy)(nil)
