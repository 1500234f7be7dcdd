package engine

import (
	"errors"

	"go.uber.org/zap"

	"github.com/thrasher-corp/backtester/account"
	"github.com/thrasher-corp/backtester/clock"
	"github.com/thrasher-corp/backtester/config"
	"github.com/thrasher-corp/backtester/data"
	"github.com/thrasher-corp/backtester/exchange"
	"github.com/thrasher-corp/backtester/instruments"
	"github.com/thrasher-corp/backtester/kline"
	"github.com/thrasher-corp/backtester/statistics"
	"github.com/thrasher-corp/backtester/strategies"
)

var (
	// ErrConfiguration is the umbrella for any bad construction input. It is
	// fatal and raised before a run starts, no partial run occurs
	ErrConfiguration = errors.New("invalid engine configuration")

	errNoStrategies    = errors.New("at least one strategy is required")
	errInvalidRunRange = errors.New("run start must be before stop")
	errNotIdle         = errors.New("engine has already run, reset it first")
)

// State is the engine lifecycle state
type State uint32

// Engine lifecycle states
const (
	Idle State = iota
	Running
	Completed
	Failed
)

// String implements the stringer interface
func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Running:
		return "RUNNING"
	case Completed:
		return "COMPLETED"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Settings are the construction inputs for a run, immutable for its duration
type Settings struct {
	Instruments []instruments.Instrument
	TickData    map[string][]kline.Tick
	BidData     map[string]map[kline.Resolution][]kline.Bar
	AskData     map[string]map[kline.Resolution][]kline.Bar
	Strategies  []strategies.Handler
	Config      *config.Config
}

// Results holds everything collected from a completed run
type Results struct {
	Account     account.Snapshot
	EquityCurve []exchange.EquityPoint
	Fills       []exchange.Fill
	// Events is the replayable log of every dispatched event, usable to
	// verify ordering and reproduce a run
	Events     []data.Event
	Statistics *statistics.Statistic
}

// Engine orchestrates a backtest run, advancing the clock, pulling events
// from the data client and collecting results. Execution is single threaded
// and synchronous, every step is a direct call chain
type Engine struct {
	settings *Settings
	cfg      *config.Config
	log      *zap.SugaredLogger

	clock      *clock.Test
	data       *data.Client
	exchange   *exchange.Exchange
	strategies []strategies.Handler

	state    State
	eventLog []data.Event
	results  *Results
}
