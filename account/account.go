package account

import (
	"time"

	"github.com/shopspring/decimal"
)

// New returns an account funded with the supplied starting capital
func New(startingCapital Money) (*Account, error) {
	if startingCapital.Currency == "" {
		return nil, errCurrencyEmpty
	}
	if !startingCapital.IsPositive() {
		return nil, ErrStartingCapitalInvalid
	}
	return &Account{
		Currency:    startingCapital.Currency,
		CashBalance: startingCapital.Amount,
		FreeEquity:  startingCapital.Amount,
	}, nil
}

// Credit increases the cash balance
func (a *Account) Credit(amount decimal.Decimal) {
	a.CashBalance = a.CashBalance.Add(amount)
}

// Debit decreases the cash balance
func (a *Account) Debit(amount decimal.Decimal) {
	a.CashBalance = a.CashBalance.Sub(amount)
}

// UpdateFreeEquity recomputes free equity from the supplied total unrealized
// profit across open positions. Holds the invariant
// free_equity == cash_balance + unrealized - margin_used
func (a *Account) UpdateFreeEquity(totalUnrealized decimal.Decimal) {
	a.FreeEquity = a.CashBalance.Add(totalUnrealized).Sub(a.MarginUsed)
}

// Snapshot returns a point in time copy of the account
func (a *Account) Snapshot(t time.Time) Snapshot {
	return Snapshot{
		Time:        t,
		CashBalance: Money{Amount: a.CashBalance, Currency: a.Currency},
		MarginUsed:  Money{Amount: a.MarginUsed, Currency: a.Currency},
		FreeEquity:  Money{Amount: a.FreeEquity, Currency: a.Currency},
	}
}
