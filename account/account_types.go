package account

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrStartingCapitalInvalid occurs when an account is created with zero or
	// negative starting capital
	ErrStartingCapitalInvalid = errors.New("starting capital must be greater than zero")
	// ErrCurrencyMismatch occurs when money arithmetic mixes currencies
	ErrCurrencyMismatch = errors.New("money currencies do not match")
	errCurrencyEmpty    = errors.New("money currency cannot be empty")
)

// Money is an exact fixed precision amount with a currency tag. All account
// and order price arithmetic uses this representation, binary floating point
// accumulates rounding error over long replays
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// Position is the net exposure to a single instrument. Average entry price is
// the weighted average of same direction additions, realized profit is booked
// when an opposing fill reduces the position
type Position struct {
	Symbol        string
	Quantity      decimal.Decimal
	AvgEntryPrice decimal.Decimal
	RealizedPnL   decimal.Decimal
	UnrealizedPnL decimal.Decimal
}

// Account is the ledger for a backtest run. Free equity is maintained as
// cash balance plus the sum of unrealized profit across open positions less
// margin in use
type Account struct {
	Currency    string
	CashBalance decimal.Decimal
	MarginUsed  decimal.Decimal
	FreeEquity  decimal.Decimal
}

// Snapshot is a point in time copy of account state
type Snapshot struct {
	Time        time.Time
	CashBalance Money
	MarginUsed  Money
	FreeEquity  Money
}
