package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NewMoney returns a Money amount in the supplied currency
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if currency == "" {
		return Money{}, errCurrencyEmpty
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// MoneyFromInt is a convenience constructor for whole amounts
func MoneyFromInt(amount int64, currency string) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount), currency)
}

// Add returns the sum of two amounts of the same currency
func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: %v and %v", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}, nil
}

// Sub returns the difference of two amounts of the same currency
func (m Money) Sub(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: %v and %v", ErrCurrencyMismatch, m.Currency, o.Currency)
	}
	return Money{Amount: m.Amount.Sub(o.Amount), Currency: m.Currency}, nil
}

// IsPositive returns whether the amount is greater than zero
func (m Money) IsPositive() bool {
	return m.Amount.GreaterThan(decimal.Zero)
}

// Equal returns whether two amounts match in value and currency
func (m Money) Equal(o Money) bool {
	return m.Currency == o.Currency && m.Amount.Equal(o.Amount)
}

// String renders the amount rounded to two decimal places with its currency
// tag, eg `1000000.00 USD`
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}
