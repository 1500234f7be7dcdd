// Package buyandhold implements the simplest possible strategy, a single
// market buy on the first bar of the run
package buyandhold

import (
	"github.com/shopspring/decimal"

	"github.com/thrasher-corp/backtester/kline"
	"github.com/thrasher-corp/backtester/order"
	"github.com/thrasher-corp/backtester/strategies"
	"github.com/thrasher-corp/backtester/strategies/base"
)

// Name is the strategy name
const Name = "buyandhold"

// Strategy is an implementation of the strategies.Handler interface
type Strategy struct {
	base.Strategy
	barType      kline.BarType
	positionSize decimal.Decimal
	bought       bool
}

// New returns a buy and hold strategy subscribed to the supplied bar type
func New(barType kline.BarType, positionSize decimal.Decimal) *Strategy {
	return &Strategy{barType: barType, positionSize: positionSize}
}

// Name returns the name of the strategy
func (s *Strategy) Name() string {
	return Name
}

// BarTypes returns the strategy's bar subscriptions
func (s *Strategy) BarTypes() []kline.BarType {
	return []kline.BarType{s.barType}
}

// OnBar buys once and then holds
func (s *Strategy) OnBar(barType kline.BarType, bar kline.Bar) {
	if s.bought || barType != s.barType {
		return
	}
	exec := s.Executor()
	if exec == nil {
		return
	}
	o, err := order.NewMarket(s.barType.Symbol, order.Buy, s.positionSize, bar.Time)
	if err != nil {
		return
	}
	if exec.SubmitOrder(o) == nil {
		s.bought = true
	}
}

var _ strategies.Handler = (*Strategy)(nil)
