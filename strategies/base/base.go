// Package base provides the no-op strategy scaffolding concrete strategies
// embed, so they only implement the hooks they care about
package base

import (
	"github.com/thrasher-corp/backtester/kline"
	"github.com/thrasher-corp/backtester/strategies"
)

// Strategy is the base implementation of the strategies.Handler interface
type Strategy struct {
	executor strategies.Executor
}

// SetExecutor stores the execution surface for order placement
func (s *Strategy) SetExecutor(e strategies.Executor) {
	s.executor = e
}

// Executor returns the wired execution surface, nil before engine setup
func (s *Strategy) Executor() strategies.Executor {
	return s.executor
}

// TickSymbols returns no tick interests by default
func (s *Strategy) TickSymbols() []string {
	return nil
}

// OnStart is a no-op by default
func (s *Strategy) OnStart() {}

// OnStop is a no-op by default
func (s *Strategy) OnStop() {}

// OnBar is a no-op by default
func (s *Strategy) OnBar(_ kline.BarType, _ kline.Bar) {}

// OnTick is a no-op by default
func (s *Strategy) OnTick(_ string, _ kline.Tick) {}
