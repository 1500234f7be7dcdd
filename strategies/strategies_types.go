package strategies

import (
	"github.com/thrasher-corp/backtester/account"
	"github.com/thrasher-corp/backtester/kline"
	"github.com/thrasher-corp/backtester/order"
)

// Executor is the execution surface strategies trade through. The engine
// wires the simulated exchange in before a run starts
type Executor interface {
	SubmitOrder(o *order.Order) error
	CancelOrder(id string) error
	Position(symbol string) account.Position
}

// Handler is the fixed strategy lifecycle the engine depends on. The engine
// holds references only, never ownership of strategy internal state
type Handler interface {
	Name() string
	BarTypes() []kline.BarType
	TickSymbols() []string
	SetExecutor(Executor)
	OnStart()
	OnStop()
	OnBar(barType kline.BarType, bar kline.Bar)
	OnTick(symbol string, tick kline.Tick)
}
