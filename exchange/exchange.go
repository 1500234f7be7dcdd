package exchange

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/thrasher-corp/backtester/account"
	"github.com/thrasher-corp/backtester/common"
	"github.com/thrasher-corp/backtester/instruments"
	"github.com/thrasher-corp/backtester/kline"
	"github.com/thrasher-corp/backtester/order"
)

// New returns an execution client for the supplied instruments funded with
// the starting capital
func New(insts []instruments.Instrument, startingCapital account.Money, opts ...Option) (*Exchange, error) {
	acc, err := account.New(startingCapital)
	if err != nil {
		return nil, err
	}
	e := &Exchange{
		log:         zap.NewNop().Sugar(),
		account:     acc,
		instruments: make(map[string]instruments.Instrument),
		orders:      make(map[string]*order.Order),
		pending:     make(map[string][]*order.Order),
		positions:   make(map[string]*account.Position),
		lastPrice:   make(map[string]decimal.Decimal),
		slippage:    func(_ order.Side, price decimal.Decimal) decimal.Decimal { return price },
		commission:  func(_, _ decimal.Decimal) decimal.Decimal { return decimal.Zero },
	}
	for i := range insts {
		e.instruments[insts[i].Symbol] = insts[i]
	}
	for i := range opts {
		opts[i](e)
	}
	return e, nil
}

// SubmitOrder validates an order, records it and queues it for fill
// evaluation on the next market update for its instrument. Validation
// failures are local, the order is recorded as Rejected, no account mutation
// occurs and the returned error only reports what was recorded
func (e *Exchange) SubmitOrder(o *order.Order) error {
	if o == nil {
		return order.ErrSubmissionIsNil
	}
	if _, ok := e.instruments[o.Symbol]; !ok {
		return fmt.Errorf("%w: %v", common.ErrUnknownInstrument, o.Symbol)
	}
	if err := o.Validate(); err != nil {
		o.Status = order.Rejected
		o.Reason = err.Error()
		e.orders[o.ID] = o
		e.history = append(e.history, o)
		e.log.Debugw("order rejected", "id", o.ID, "reason", o.Reason)
		return err
	}
	o.Status = order.Submitted
	e.orders[o.ID] = o
	e.history = append(e.history, o)
	e.pending[o.Symbol] = append(e.pending[o.Symbol], o)
	e.log.Debugw("order submitted", "id", o.ID, "symbol", o.Symbol, "side", o.Side, "type", o.Type, "quantity", o.Quantity)
	return nil
}

// CancelOrder transitions a working order to Cancelled. Cancelling an unknown
// or terminal order is a no-op reported via ErrOrderNotFound
func (e *Exchange) CancelOrder(id string) error {
	o, ok := e.orders[id]
	if !ok || !o.IsActive() {
		return fmt.Errorf("%w: %v", ErrOrderNotFound, id)
	}
	o.Status = order.Cancelled
	e.removePending(o)
	e.log.Debugw("order cancelled", "id", id)
	return nil
}

// OnBar evaluates pending orders for the bar's instrument and marks every
// open position to market. Mark to market runs unconditionally, independent
// of whether any order filled
func (e *Exchange) OnBar(bt kline.BarType, bar kline.Bar) {
	pending := e.pending[bt.Symbol]
	for i := 0; i < len(pending); i++ {
		o := pending[i]
		price, filled := barFillPrice(o, &bar)
		if !filled {
			continue
		}
		e.fill(o, price, bar.Time)
	}
	e.markToMarket(bt.Symbol, bar.Close, bar.Time)
}

// OnTick evaluates pending orders against the tick's bid and ask and marks
// every open position to market at the midpoint
func (e *Exchange) OnTick(symbol string, tick kline.Tick) {
	pending := e.pending[symbol]
	for i := 0; i < len(pending); i++ {
		o := pending[i]
		price, filled := tickFillPrice(o, &tick)
		if !filled {
			continue
		}
		e.fill(o, price, tick.Time)
	}
	e.markToMarket(symbol, tick.Mid(), tick.Time)
}

// Account returns a snapshot of the account at the latest observed instant
func (e *Exchange) Account() account.Snapshot {
	return e.account.Snapshot(e.lastTime)
}

// Position returns the position for a symbol, flat when none exists
func (e *Exchange) Position(symbol string) account.Position {
	if p, ok := e.positions[symbol]; ok {
		return *p
	}
	return account.Position{Symbol: symbol}
}

// Positions returns all positions that have been opened during the run,
// ordered by symbol for reproducible reporting
func (e *Exchange) Positions() []account.Position {
	resp := make([]account.Position, 0, len(e.positions))
	for _, p := range e.positions {
		resp = append(resp, *p)
	}
	sort.Slice(resp, func(i, j int) bool {
		return resp[i].Symbol < resp[j].Symbol
	})
	return resp
}

// Order returns an order by ID
func (e *Exchange) Order(id string) (*order.Order, error) {
	o, ok := e.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrOrderNotFound, id)
	}
	return o, nil
}

// Orders returns every order received during the run in submission order
func (e *Exchange) Orders() []*order.Order {
	return append([]*order.Order(nil), e.history...)
}

// Fills returns every fill in execution order
func (e *Exchange) Fills() []Fill {
	return append([]Fill(nil), e.fills...)
}

// EquityCurve returns the free equity samples taken at every mark to market
// step
func (e *Exchange) EquityCurve() []EquityPoint {
	return append([]EquityPoint(nil), e.equity...)
}

// barFillPrice resolves whether an order fills against a bar under the
// default policy, all or nothing with no partial fills
func barFillPrice(o *order.Order, bar *kline.Bar) (decimal.Decimal, bool) {
	switch o.Type {
	case order.Market:
		// next available price is the bar's open
		return bar.Open, true
	case order.Limit:
		if o.Side == order.Buy && bar.Low.LessThanOrEqual(o.Price) {
			return o.Price, true
		}
		if o.Side == order.Sell && bar.High.GreaterThanOrEqual(o.Price) {
			return o.Price, true
		}
	case order.Stop:
		if o.Side == order.Buy && bar.High.GreaterThanOrEqual(o.Price) {
			return o.Price, true
		}
		if o.Side == order.Sell && bar.Low.LessThanOrEqual(o.Price) {
			return o.Price, true
		}
	}
	return decimal.Zero, false
}

func tickFillPrice(o *order.Order, tick *kline.Tick) (decimal.Decimal, bool) {
	touch := tick.Ask
	if o.Side == order.Sell {
		touch = tick.Bid
	}
	switch o.Type {
	case order.Market:
		return touch, true
	case order.Limit:
		if o.Side == order.Buy && touch.LessThanOrEqual(o.Price) {
			return touch, true
		}
		if o.Side == order.Sell && touch.GreaterThanOrEqual(o.Price) {
			return touch, true
		}
	case order.Stop:
		if o.Side == order.Buy && touch.GreaterThanOrEqual(o.Price) {
			return touch, true
		}
		if o.Side == order.Sell && touch.LessThanOrEqual(o.Price) {
			return touch, true
		}
	}
	return decimal.Zero, false
}

// fill executes an order completely at the adjusted price, settles cash and
// the position, and retires it from the pending queue
func (e *Exchange) fill(o *order.Order, rawPrice decimal.Decimal, t time.Time) {
	inst := e.instruments[o.Symbol]
	price := inst.RoundPrice(e.slippage(o.Side, rawPrice))
	commission := e.commission(price, o.Quantity)

	notional := price.Mul(o.Quantity)
	qtyDelta := o.Quantity
	if o.Side == order.Buy {
		e.account.Debit(notional.Add(commission))
	} else {
		e.account.Credit(notional.Sub(commission))
		qtyDelta = qtyDelta.Neg()
	}

	pos, ok := e.positions[o.Symbol]
	if !ok {
		pos = account.NewPosition(o.Symbol)
		e.positions[o.Symbol] = pos
	}
	pos.Apply(qtyDelta, price)

	o.Status = order.Filled
	o.FilledAt = t
	o.FillPrice = price
	e.removePending(o)

	e.fills = append(e.fills, Fill{
		OrderID:    o.ID,
		Symbol:     o.Symbol,
		Side:       o.Side,
		Quantity:   o.Quantity,
		Price:      price,
		Commission: commission,
		Time:       t,
	})
	e.log.Debugw("order filled", "id", o.ID, "symbol", o.Symbol, "side", o.Side, "quantity", o.Quantity, "price", price)
}

// markToMarket recomputes every open position's unrealized profit from the
// latest observed price for its instrument and refreshes free equity per the
// account invariant, sampling the equity curve
func (e *Exchange) markToMarket(symbol string, price decimal.Decimal, t time.Time) {
	e.lastPrice[symbol] = price
	e.lastTime = t

	totalUnrealized := decimal.Zero
	for sym, pos := range e.positions {
		if last, ok := e.lastPrice[sym]; ok {
			pos.MarkToMarket(last)
		}
		totalUnrealized = totalUnrealized.Add(pos.UnrealizedPnL)
	}
	e.account.UpdateFreeEquity(totalUnrealized)
	e.equity = append(e.equity, EquityPoint{
		Time:       t,
		FreeEquity: account.Money{Amount: e.account.FreeEquity, Currency: e.account.Currency},
	})
}

func (e *Exchange) removePending(o *order.Order) {
	pending := e.pending[o.Symbol]
	for i := range pending {
		if pending[i] == o {
			e.pending[o.Symbol] = append(pending[:i:i], pending[i+1:]...)
			return
		}
	}
}
