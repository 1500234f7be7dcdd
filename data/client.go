package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/thrasher-corp/backtester/common"
	"github.com/thrasher-corp/backtester/instruments"
	"github.com/thrasher-corp/backtester/kline"
)

// NewClient constructs one Provider per instrument from the supplied tick and
// bar tables. Tables are keyed by instrument symbol and missing entries are
// treated as empty series
func NewClient(insts []instruments.Instrument, tickData map[string][]kline.Tick, bidData, askData map[string]map[kline.Resolution][]kline.Bar) (*Client, error) {
	if len(insts) == 0 {
		return nil, fmt.Errorf("%w: no instruments", common.ErrNilArguments)
	}
	c := &Client{
		providers: make(map[string]*Provider),
		barSubs:   make(map[kline.BarType][]*BarSubscription),
		tickSubs:  make(map[string][]*TickSubscription),
	}
	for i := range insts {
		symbol := insts[i].Symbol
		if _, ok := c.providers[symbol]; ok {
			return nil, fmt.Errorf("duplicate instrument %v", symbol)
		}
		p, err := NewProvider(insts[i], tickData[symbol], bidData[symbol], askData[symbol])
		if err != nil {
			return nil, err
		}
		c.providers[symbol] = p
		c.symbols = append(c.symbols, symbol)
	}
	// lexicographic symbol order is the final merge tie break
	sort.Strings(c.symbols)
	return c, nil
}

// Provider returns the data provider for a symbol
func (c *Client) Provider(symbol string) (*Provider, error) {
	p, ok := c.providers[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %v", common.ErrUnknownInstrument, symbol)
	}
	return p, nil
}

// Symbols returns the managed instrument symbols in lexicographic order
func (c *Client) Symbols() []string {
	return append([]string(nil), c.symbols...)
}

// SubscribeBars registers a handler for a bar type. Multiple handlers per key
// are invoked in registration order. The returned subscription is the
// identity used to unsubscribe
func (c *Client) SubscribeBars(bt kline.BarType, handler BarHandler) (*BarSubscription, error) {
	if handler == nil {
		return nil, common.ErrNilArguments
	}
	if _, ok := c.providers[bt.Symbol]; !ok {
		return nil, fmt.Errorf("%w: %v", common.ErrUnknownBarType, bt)
	}
	sub := &BarSubscription{BarType: bt, fn: handler}
	c.barSubs[bt] = append(c.barSubs[bt], sub)
	return sub, nil
}

// UnsubscribeBars removes a previously registered bar subscription
func (c *Client) UnsubscribeBars(sub *BarSubscription) {
	if sub == nil {
		return
	}
	subs := c.barSubs[sub.BarType]
	for i := range subs {
		if subs[i] == sub {
			c.barSubs[sub.BarType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// SubscribeTicks registers a handler for an instrument's tick stream
func (c *Client) SubscribeTicks(symbol string, handler TickHandler) (*TickSubscription, error) {
	if handler == nil {
		return nil, common.ErrNilArguments
	}
	if _, ok := c.providers[symbol]; !ok {
		return nil, fmt.Errorf("%w: %v", common.ErrUnknownInstrument, symbol)
	}
	sub := &TickSubscription{Symbol: symbol, fn: handler}
	c.tickSubs[symbol] = append(c.tickSubs[symbol], sub)
	return sub, nil
}

// UnsubscribeTicks removes a previously registered tick subscription
func (c *Client) UnsubscribeTicks(sub *TickSubscription) {
	if sub == nil {
		return
	}
	subs := c.tickSubs[sub.Symbol]
	for i := range subs {
		if subs[i] == sub {
			c.tickSubs[sub.Symbol] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Iterate advances every provider up to the supplied instant, merges their
// outputs into one globally ordered sequence and dispatches each event to its
// registered handlers. Handlers observe strictly non decreasing instants
// across the whole run, replay is bit for bit reproducible for identical
// inputs
func (c *Client) Iterate(upto time.Time) ([]Event, error) {
	var merged []Event
	for _, symbol := range c.symbols {
		events, err := c.providers[symbol].Iterate(upto)
		if err != nil {
			return nil, err
		}
		merged = append(merged, events...)
	}
	// stable sort preserves per provider ordering and symbol order within
	// equal instants and ranks
	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Time.Equal(merged[j].Time) {
			return merged[i].Time.Before(merged[j].Time)
		}
		return eventRank(&merged[i]) < eventRank(&merged[j])
	})

	for i := range merged {
		c.dispatch(&merged[i])
	}
	return merged, nil
}

// NextTime returns the earliest instant at which any provider has an
// unconsumed event, or false when all providers are exhausted
func (c *Client) NextTime() (time.Time, bool) {
	var next time.Time
	var ok bool
	for _, symbol := range c.symbols {
		t, has := c.providers[symbol].NextTime()
		if !has {
			continue
		}
		if !ok || t.Before(next) {
			next = t
			ok = true
		}
	}
	return next, ok
}

// Reset rewinds every provider. Subscriptions are retained
func (c *Client) Reset() {
	for _, p := range c.providers {
		p.Reset()
	}
}

func (c *Client) dispatch(e *Event) {
	if e.Tick != nil {
		for _, sub := range c.tickSubs[e.Symbol] {
			sub.fn(e.Symbol, *e.Tick)
		}
		return
	}
	for _, sub := range c.barSubs[e.BarType] {
		sub.fn(e.BarType, *e.Bar)
	}
}
