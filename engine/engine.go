// Package engine drives deterministic backtest runs. Identical instrument
// data, strategy configuration and starting capital always produce an
// identical sequence of handler invocations, fills and equity curve values
package engine

import (
	"fmt"
	"time"

	"github.com/thrasher-corp/backtester/clock"
	"github.com/thrasher-corp/backtester/config"
	"github.com/thrasher-corp/backtester/data"
	"github.com/thrasher-corp/backtester/exchange"
	"github.com/thrasher-corp/backtester/statistics"
)

// New validates the supplied settings and wires the data client, execution
// client and strategies together. Any validation failure is fatal and no
// partial run can occur
func New(settings *Settings) (*Engine, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: nil settings", ErrConfiguration)
	}
	e := &Engine{settings: settings}
	if err := e.setup(); err != nil {
		return nil, err
	}
	return e, nil
}

// setup builds all run state from the settings. Called at construction and
// again on Reset
func (e *Engine) setup() error {
	cfg := e.settings.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if len(e.settings.Strategies) == 0 {
		return fmt.Errorf("%w: %w", ErrConfiguration, errNoStrategies)
	}
	capital, err := cfg.Capital()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	e.cfg = cfg
	e.log = cfg.Logger()

	e.data, err = data.NewClient(e.settings.Instruments, e.settings.TickData, e.settings.BidData, e.settings.AskData)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	e.exchange, err = exchange.New(e.settings.Instruments, capital,
		exchange.WithSlippage(cfg.SlippageFn()),
		exchange.WithCommission(cfg.CommissionFn()),
		exchange.WithLogger(e.log))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	// the execution client subscribes ahead of all strategies so order fills
	// and mark to market precede strategy reactions at every instant
	for _, symbol := range e.data.Symbols() {
		provider, pErr := e.data.Provider(symbol)
		if pErr != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, pErr)
		}
		for _, bt := range provider.BarTypes() {
			if _, sErr := e.data.SubscribeBars(bt, e.exchange.OnBar); sErr != nil {
				return fmt.Errorf("%w: %v", ErrConfiguration, sErr)
			}
		}
		if _, sErr := e.data.SubscribeTicks(symbol, e.exchange.OnTick); sErr != nil {
			return fmt.Errorf("%w: %v", ErrConfiguration, sErr)
		}
	}

	e.strategies = e.settings.Strategies
	for _, s := range e.strategies {
		s.SetExecutor(e.exchange)
		for _, bt := range s.BarTypes() {
			if _, sErr := e.data.SubscribeBars(bt, s.OnBar); sErr != nil {
				return fmt.Errorf("%w: strategy %v: %v", ErrConfiguration, s.Name(), sErr)
			}
		}
		for _, symbol := range s.TickSymbols() {
			if _, sErr := e.data.SubscribeTicks(symbol, s.OnTick); sErr != nil {
				return fmt.Errorf("%w: strategy %v: %v", ErrConfiguration, s.Name(), sErr)
			}
		}
	}

	e.state = Idle
	e.eventLog = nil
	e.results = nil
	return nil
}

// Run replays all market data between start and stop through the wired
// strategies and collects results. The loop terminates exactly at stop,
// events beyond it are never dispatched
func (e *Engine) Run(start, stop time.Time) error {
	if e.state != Idle {
		return fmt.Errorf("%w: state %v", errNotIdle, e.state)
	}
	if !start.Before(stop) {
		return fmt.Errorf("%w: %w", ErrConfiguration, errInvalidRunRange)
	}

	e.clock = clock.NewTest(start)
	e.state = Running
	e.log.Infow("backtest starting", "start", start, "stop", stop)

	for _, s := range e.strategies {
		s.OnStart()
	}

	// deliver any backlog due at or before the start instant, then step the
	// clock event to event
	if err := e.iterate(start); err != nil {
		return e.fail(err)
	}
	for {
		next, ok := e.data.NextTime()
		if !ok || next.After(stop) {
			break
		}
		if err := e.clock.SetTime(next); err != nil {
			return e.fail(err)
		}
		if err := e.iterate(e.clock.Now()); err != nil {
			return e.fail(err)
		}
	}
	if stop.After(e.clock.Now()) {
		if err := e.clock.SetTime(stop); err != nil {
			return e.fail(err)
		}
	}

	for _, s := range e.strategies {
		s.OnStop()
	}
	e.state = Completed
	e.collectResults(start, stop)
	e.log.Infow("backtest completed", "events", len(e.eventLog), "fills", len(e.results.Fills))
	return nil
}

func (e *Engine) iterate(upto time.Time) error {
	events, err := e.data.Iterate(upto)
	if err != nil {
		return err
	}
	e.eventLog = append(e.eventLog, events...)
	return nil
}

func (e *Engine) fail(err error) error {
	e.state = Failed
	e.log.Errorw("backtest failed", "error", err)
	return err
}

func (e *Engine) collectResults(start, stop time.Time) {
	r := &Results{
		Account:     e.exchange.Account(),
		EquityCurve: e.exchange.EquityCurve(),
		Fills:       e.exchange.Fills(),
		Events:      append([]data.Event(nil), e.eventLog...),
	}
	capital, err := e.cfg.Capital()
	if err == nil && len(r.EquityCurve) > 0 {
		r.Statistics, err = statistics.Calculate(start, stop, capital, e.exchange.Orders(), r.Fills, r.EquityCurve)
		if err == nil && e.cfg.Verbose {
			r.Statistics.PrintResults(e.log)
		}
	}
	e.results = r
}

// State returns the engine lifecycle state
func (e *Engine) State() State {
	return e.state
}

// Results returns the collected run output, nil until a run completes
func (e *Engine) Results() *Results {
	return e.results
}

// DataClient returns the engine's data client for diagnostics
func (e *Engine) DataClient() *data.Client {
	return e.data
}

// Exchange returns the engine's execution client
func (e *Engine) Exchange() *exchange.Exchange {
	return e.exchange
}

// Clock returns the engine's clock, nil before the first run
func (e *Engine) Clock() clock.Clock {
	return e.clock
}

// Reset returns the engine to a fresh Idle state so an identical run can be
// repeated
func (e *Engine) Reset() error {
	return e.setup()
}
