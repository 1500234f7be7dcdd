package exchange

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrasher-corp/backtester/account"
	"github.com/thrasher-corp/backtester/common"
	"github.com/thrasher-corp/backtester/instruments"
	"github.com/thrasher-corp/backtester/kline"
	"github.com/thrasher-corp/backtester/order"
)

var testStart = time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)

func testExchange(t *testing.T, opts ...Option) *Exchange {
	t.Helper()
	inst, err := instruments.New("USDJPY", 3, decimal.NewFromFloat(0.001))
	require.NoError(t, err)
	capital, err := account.MoneyFromInt(1000000, "USD")
	require.NoError(t, err)
	e, err := New([]instruments.Instrument{inst}, capital, opts...)
	require.NoError(t, err)
	return e
}

func testBar(open, high, low, closePrice float64, at time.Time) kline.Bar {
	return kline.Bar{
		Time:   at,
		Open:   decimal.NewFromFloat(open),
		High:   decimal.NewFromFloat(high),
		Low:    decimal.NewFromFloat(low),
		Close:  decimal.NewFromFloat(closePrice),
		Volume: decimal.NewFromInt(1000),
	}
}

func testBarType() kline.BarType {
	return kline.BarType{Symbol: "USDJPY", Resolution: kline.OneMin, Side: kline.Bid}
}

func marketBuy(t *testing.T, qty int64) *order.Order {
	t.Helper()
	o, err := order.NewMarket("USDJPY", order.Buy, decimal.NewFromInt(qty), testStart)
	require.NoError(t, err)
	return o
}

func TestNewStartingCapital(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	snap := e.Account()
	million := decimal.NewFromInt(1000000)
	assert.True(t, snap.CashBalance.Amount.Equal(million))
	assert.True(t, snap.FreeEquity.Amount.Equal(million))

	capital := account.Money{Amount: decimal.Zero, Currency: "USD"}
	_, err := New(nil, capital)
	assert.ErrorIs(t, err, account.ErrStartingCapitalInvalid)
}

func TestSubmitOrderRejection(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	o, err := order.NewMarket("USDJPY", order.Buy, decimal.Zero, testStart)
	require.NoError(t, err)

	err = e.SubmitOrder(o)
	assert.ErrorIs(t, err, order.ErrValidation)
	assert.Equal(t, order.Rejected, o.Status)
	assert.NotEmpty(t, o.Reason)

	// account is untouched by a rejected order
	snap := e.Account()
	assert.True(t, snap.CashBalance.Amount.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, snap.FreeEquity.Amount.Equal(decimal.NewFromInt(1000000)))

	recorded, err := e.Order(o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Rejected, recorded.Status)

	// a rejected order never fills
	e.OnBar(testBarType(), testBar(86.71, 86.72, 86.70, 86.715, testStart.Add(time.Minute)))
	assert.Empty(t, e.Fills())
}

func TestSubmitOrderUnknownInstrument(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	o, err := order.NewMarket("GBPUSD", order.Buy, decimal.NewFromInt(1), testStart)
	require.NoError(t, err)

	err = e.SubmitOrder(o)
	assert.ErrorIs(t, err, common.ErrUnknownInstrument)
	assert.Empty(t, e.Orders())

	assert.ErrorIs(t, e.SubmitOrder(nil), order.ErrSubmissionIsNil)
}

func TestMarketOrderFillsAtOpen(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	o := marketBuy(t, 1000)
	require.NoError(t, e.SubmitOrder(o))
	assert.Equal(t, order.Submitted, o.Status)

	e.OnBar(testBarType(), testBar(86.710, 86.720, 86.700, 86.715, testStart.Add(time.Minute)))

	assert.Equal(t, order.Filled, o.Status)
	assert.True(t, o.FillPrice.Equal(decimal.NewFromFloat(86.710)))

	fills := e.Fills()
	require.Len(t, fills, 1)
	assert.Equal(t, o.ID, fills[0].OrderID)
	assert.True(t, fills[0].Commission.IsZero())

	pos := e.Position("USDJPY")
	assert.True(t, pos.Quantity.Equal(decimal.NewFromInt(1000)))
	assert.True(t, pos.AvgEntryPrice.Equal(decimal.NewFromFloat(86.710)))

	wantCash := decimal.NewFromInt(1000000).Sub(decimal.NewFromFloat(86.710).Mul(decimal.NewFromInt(1000)))
	assert.True(t, e.Account().CashBalance.Amount.Equal(wantCash))
}

func TestLimitOrderFill(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	limit := decimal.NewFromFloat(86.700)
	o, err := order.New("USDJPY", order.Buy, order.Limit, decimal.NewFromInt(1000), limit, testStart)
	require.NoError(t, err)
	require.NoError(t, e.SubmitOrder(o))

	// low above the limit, no fill
	e.OnBar(testBarType(), testBar(86.710, 86.720, 86.705, 86.715, testStart.Add(time.Minute)))
	assert.Equal(t, order.Submitted, o.Status)

	// low touches the limit, fills at the limit price
	e.OnBar(testBarType(), testBar(86.705, 86.710, 86.695, 86.700, testStart.Add(2*time.Minute)))
	assert.Equal(t, order.Filled, o.Status)
	assert.True(t, o.FillPrice.Equal(limit))
}

func TestLimitSellFill(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	limit := decimal.NewFromFloat(86.730)
	o, err := order.New("USDJPY", order.Sell, order.Limit, decimal.NewFromInt(1000), limit, testStart)
	require.NoError(t, err)
	require.NoError(t, e.SubmitOrder(o))

	e.OnBar(testBarType(), testBar(86.710, 86.720, 86.700, 86.715, testStart.Add(time.Minute)))
	assert.Equal(t, order.Submitted, o.Status)

	e.OnBar(testBarType(), testBar(86.715, 86.735, 86.710, 86.730, testStart.Add(2*time.Minute)))
	assert.Equal(t, order.Filled, o.Status)
	assert.True(t, o.FillPrice.Equal(limit))
}

func TestStopOrderFill(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	stop := decimal.NewFromFloat(86.690)
	o, err := order.New("USDJPY", order.Sell, order.Stop, decimal.NewFromInt(1000), stop, testStart)
	require.NoError(t, err)
	require.NoError(t, e.SubmitOrder(o))

	e.OnBar(testBarType(), testBar(86.710, 86.720, 86.700, 86.715, testStart.Add(time.Minute)))
	assert.Equal(t, order.Submitted, o.Status)

	e.OnBar(testBarType(), testBar(86.700, 86.705, 86.685, 86.690, testStart.Add(2*time.Minute)))
	assert.Equal(t, order.Filled, o.Status)
	assert.True(t, o.FillPrice.Equal(stop))
}

func TestTickFills(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	buy := marketBuy(t, 1000)
	require.NoError(t, e.SubmitOrder(buy))
	sell, err := order.NewMarket("USDJPY", order.Sell, decimal.NewFromInt(500), testStart)
	require.NoError(t, err)
	require.NoError(t, e.SubmitOrder(sell))

	tick := kline.Tick{
		Time: testStart.Add(time.Second),
		Bid:  decimal.NewFromFloat(86.710),
		Ask:  decimal.NewFromFloat(86.712),
	}
	e.OnTick("USDJPY", tick)

	// buys lift the ask, sells hit the bid
	assert.Equal(t, order.Filled, buy.Status)
	assert.True(t, buy.FillPrice.Equal(tick.Ask))
	assert.Equal(t, order.Filled, sell.Status)
	assert.True(t, sell.FillPrice.Equal(tick.Bid))
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	o := marketBuy(t, 1000)
	require.NoError(t, e.SubmitOrder(o))

	require.NoError(t, e.CancelOrder(o.ID))
	assert.Equal(t, order.Cancelled, o.Status)

	// cancelled orders never fill
	e.OnBar(testBarType(), testBar(86.710, 86.720, 86.700, 86.715, testStart.Add(time.Minute)))
	assert.Empty(t, e.Fills())

	assert.ErrorIs(t, e.CancelOrder(o.ID), ErrOrderNotFound)
	assert.ErrorIs(t, e.CancelOrder("missing"), ErrOrderNotFound)
}

func TestMarkToMarketInvariant(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	require.NoError(t, e.SubmitOrder(marketBuy(t, 1000)))

	prices := [][4]float64{
		{86.710, 86.720, 86.700, 86.715},
		{86.715, 86.730, 86.710, 86.725},
		{86.725, 86.725, 86.690, 86.695},
		{86.695, 86.750, 86.690, 86.748},
	}
	for i, p := range prices {
		e.OnBar(testBarType(), testBar(p[0], p[1], p[2], p[3], testStart.Add(time.Duration(i+1)*time.Minute)))

		pos := e.Position("USDJPY")
		snap := e.Account()
		want := snap.CashBalance.Amount.Add(pos.UnrealizedPnL).Sub(snap.MarginUsed.Amount)
		assert.True(t, snap.FreeEquity.Amount.Equal(want), "free equity invariant broken at update %v", i)
	}

	// equity curve sampled once per market update
	assert.Len(t, e.EquityCurve(), len(prices))
}

func TestMarkToMarketRunsWithoutFills(t *testing.T) {
	t.Parallel()
	e := testExchange(t)
	e.OnBar(testBarType(), testBar(86.710, 86.720, 86.700, 86.715, testStart.Add(time.Minute)))

	curve := e.EquityCurve()
	require.Len(t, curve, 1)
	assert.True(t, curve[0].FreeEquity.Amount.Equal(decimal.NewFromInt(1000000)))
}

func TestSlippageAndCommission(t *testing.T) {
	t.Parallel()
	slip := func(side order.Side, price decimal.Decimal) decimal.Decimal {
		if side == order.Buy {
			return price.Add(decimal.NewFromFloat(0.002))
		}
		return price.Sub(decimal.NewFromFloat(0.002))
	}
	comm := func(price, quantity decimal.Decimal) decimal.Decimal {
		return decimal.NewFromFloat(1.5)
	}
	e := testExchange(t, WithSlippage(slip), WithCommission(comm))
	o := marketBuy(t, 1000)
	require.NoError(t, e.SubmitOrder(o))

	e.OnBar(testBarType(), testBar(86.710, 86.720, 86.700, 86.715, testStart.Add(time.Minute)))

	require.Equal(t, order.Filled, o.Status)
	assert.True(t, o.FillPrice.Equal(decimal.NewFromFloat(86.712)))

	fills := e.Fills()
	require.Len(t, fills, 1)
	assert.True(t, fills[0].Commission.Equal(decimal.NewFromFloat(1.5)))

	wantCash := decimal.NewFromInt(1000000).
		Sub(decimal.NewFromFloat(86.712).Mul(decimal.NewFromInt(1000))).
		Sub(decimal.NewFromFloat(1.5))
	assert.True(t, e.Account().CashBalance.Amount.Equal(wantCash))
}

func TestPositionsSorted(t *testing.T) {
	t.Parallel()
	instA, err := instruments.New("AUDUSD", 5, decimal.NewFromFloat(0.00001))
	require.NoError(t, err)
	instB, err := instruments.New("USDJPY", 3, decimal.NewFromFloat(0.001))
	require.NoError(t, err)
	capital, err := account.MoneyFromInt(1000000, "USD")
	require.NoError(t, err)
	e, err := New([]instruments.Instrument{instB, instA}, capital)
	require.NoError(t, err)

	for _, symbol := range []string{"USDJPY", "AUDUSD"} {
		o, oErr := order.NewMarket(symbol, order.Buy, decimal.NewFromInt(10), testStart)
		require.NoError(t, oErr)
		require.NoError(t, e.SubmitOrder(o))
		e.OnTick(symbol, kline.Tick{
			Time: testStart.Add(time.Second),
			Bid:  decimal.NewFromFloat(1.0),
			Ask:  decimal.NewFromFloat(1.1),
		})
	}

	positions := e.Positions()
	require.Len(t, positions, 2)
	assert.Equal(t, "AUDUSD", positions[0].Symbol)
	assert.Equal(t, "USDJPY", positions[1].Symbol)
}
