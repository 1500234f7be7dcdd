package exchange

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/thrasher-corp/backtester/account"
	"github.com/thrasher-corp/backtester/instruments"
	"github.com/thrasher-corp/backtester/order"
)

var (
	// ErrOrderNotFound occurs when cancelling or inspecting an order that is
	// not on the book. The operation is a no-op
	ErrOrderNotFound = errors.New("order not found")
)

// SlippageFn adjusts a prospective fill price. The default applies none
type SlippageFn func(side order.Side, price decimal.Decimal) decimal.Decimal

// CommissionFn prices the commission on a fill. The default charges none
type CommissionFn func(price, quantity decimal.Decimal) decimal.Decimal

// Fill records an execution of an order against simulated market data
type Fill struct {
	OrderID    string
	Symbol     string
	Side       order.Side
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Commission decimal.Decimal
	Time       time.Time
}

// EquityPoint is one sample of the equity curve, taken at every mark to
// market step
type EquityPoint struct {
	Time       time.Time
	FreeEquity account.Money
}

// Exchange simulates order lifecycle against replayed market state. It owns
// the account and the order and position books, which are mutated only from
// its own methods inside the engine's single control loop
type Exchange struct {
	log *zap.SugaredLogger

	account     *account.Account
	instruments map[string]instruments.Instrument

	orders  map[string]*order.Order
	pending map[string][]*order.Order
	history []*order.Order

	positions map[string]*account.Position
	lastPrice map[string]decimal.Decimal
	lastTime  time.Time

	fills  []Fill
	equity []EquityPoint

	slippage   SlippageFn
	commission CommissionFn
}

// Option configures optional execution behaviour
type Option func(*Exchange)

// WithSlippage injects a slippage model applied to every fill price
func WithSlippage(fn SlippageFn) Option {
	return func(e *Exchange) {
		if fn != nil {
			e.slippage = fn
		}
	}
}

// WithCommission injects a commission model applied to every fill
func WithCommission(fn CommissionFn) Option {
	return func(e *Exchange) {
		if fn != nil {
			e.commission = fn
		}
	}
}

// WithLogger attaches a logger for fill and rejection reporting
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Exchange) {
		if l != nil {
			e.log = l
		}
	}
}
