package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/thrasher-corp/backtester/common"
	"github.com/thrasher-corp/backtester/instruments"
	"github.com/thrasher-corp/backtester/kline"
)

// NewProvider validates and copies the supplied series and returns a Provider
// for the instrument. Empty series are not an error, they yield zero events
func NewProvider(instrument instruments.Instrument, ticks []kline.Tick, bidBars, askBars map[kline.Resolution][]kline.Bar) (*Provider, error) {
	if err := kline.ValidateTicks(ticks); err != nil {
		return nil, fmt.Errorf("%v ticks: %w", instrument.Symbol, err)
	}
	p := &Provider{
		instrument: instrument,
		ticks:      append([]kline.Tick(nil), ticks...),
		bars:       make(map[kline.BarType][]kline.Bar),
		cursors:    make(map[kline.BarType]int),
		iterations: make(map[kline.BarType]int64),
	}
	for side, series := range map[kline.PriceSide]map[kline.Resolution][]kline.Bar{
		kline.Bid: bidBars,
		kline.Ask: askBars,
	} {
		for resolution, bars := range series {
			if err := resolution.Validate(); err != nil {
				return nil, fmt.Errorf("%v %v: %w", instrument.Symbol, side, err)
			}
			bt := kline.BarType{Symbol: instrument.Symbol, Resolution: resolution, Side: side}
			if err := kline.ValidateBars(bars); err != nil {
				return nil, fmt.Errorf("%v: %w", bt, err)
			}
			p.bars[bt] = append([]kline.Bar(nil), bars...)
			p.barTypes = append(p.barTypes, bt)
		}
	}
	// fixed bar type ordering keeps equal time merges deterministic
	sort.Slice(p.barTypes, func(i, j int) bool {
		if p.barTypes[i].Resolution != p.barTypes[j].Resolution {
			return p.barTypes[i].Resolution < p.barTypes[j].Resolution
		}
		return p.barTypes[i].Side < p.barTypes[j].Side
	})
	return p, nil
}

// Instrument returns the provider's instrument
func (p *Provider) Instrument() instruments.Instrument {
	return p.instrument
}

// BarTypes returns the bar types the provider holds series for, finest
// resolution first
func (p *Provider) BarTypes() []kline.BarType {
	return append([]kline.BarType(nil), p.barTypes...)
}

// HasTicks returns whether the provider holds any tick data
func (p *Provider) HasTicks() bool {
	return len(p.ticks) > 0
}

// Iterations returns how many bars of the supplied type have been emitted
func (p *Provider) Iterations(bt kline.BarType) int64 {
	return p.iterations[bt]
}

// Iterate advances every cursor up to and including the supplied instant and
// returns the due events merged into ascending time order. At equal instants
// ticks are emitted first, then bars from finest to coarsest resolution, so a
// coarse bar is never observed before the finer data that composed it
func (p *Provider) Iterate(upto time.Time) ([]Event, error) {
	if p.hasIterated && upto.Before(p.lastUpto) {
		return nil, fmt.Errorf("%w: iterate upto %v is before %v", common.ErrTimeRegression, upto, p.lastUpto)
	}
	p.lastUpto = upto
	p.hasIterated = true

	var events []Event
	for ; p.tickCursor < len(p.ticks); p.tickCursor++ {
		t := p.ticks[p.tickCursor]
		if t.Time.After(upto) {
			break
		}
		tick := t
		events = append(events, Event{
			Time:   tick.Time,
			Symbol: p.instrument.Symbol,
			Tick:   &tick,
		})
	}
	for _, bt := range p.barTypes {
		series := p.bars[bt]
		cursor := p.cursors[bt]
		for ; cursor < len(series); cursor++ {
			b := series[cursor]
			if b.Time.After(upto) {
				break
			}
			bar := b
			events = append(events, Event{
				Time:    bar.Time,
				Symbol:  p.instrument.Symbol,
				BarType: bt,
				Bar:     &bar,
			})
			p.iterations[bt]++
		}
		p.cursors[bt] = cursor
	}

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Time.Equal(events[j].Time) {
			return events[i].Time.Before(events[j].Time)
		}
		return eventRank(&events[i]) < eventRank(&events[j])
	})
	return events, nil
}

// NextTime returns the earliest instant at which the provider has an
// unconsumed event, or false when all series are exhausted
func (p *Provider) NextTime() (time.Time, bool) {
	var next time.Time
	var ok bool
	consider := func(t time.Time) {
		if !ok || t.Before(next) {
			next = t
			ok = true
		}
	}
	if p.tickCursor < len(p.ticks) {
		consider(p.ticks[p.tickCursor].Time)
	}
	for _, bt := range p.barTypes {
		if cursor := p.cursors[bt]; cursor < len(p.bars[bt]) {
			consider(p.bars[bt][cursor].Time)
		}
	}
	return next, ok
}

// Reset rewinds every cursor and iteration counter to the series start
func (p *Provider) Reset() {
	p.tickCursor = 0
	p.cursors = make(map[kline.BarType]int)
	p.iterations = make(map[kline.BarType]int64)
	p.lastUpto = time.Time{}
	p.hasIterated = false
}

// eventRank orders events sharing an instant, ticks ahead of bars and finer
// bars ahead of coarser ones
func eventRank(e *Event) int64 {
	if e.Tick != nil {
		return -1
	}
	return int64(e.BarType.Resolution)
}
