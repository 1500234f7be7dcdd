package order

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// New returns an Initialized order with a fresh identifier. Price carries the
// limit or stop trigger and is ignored for market orders
func New(symbol string, side Side, orderType Type, quantity, price decimal.Decimal, createdAt time.Time) (*Order, error) {
	u, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	return &Order{
		ID:        u.String(),
		Symbol:    symbol,
		Side:      side,
		Type:      orderType,
		Quantity:  quantity,
		Price:     price,
		Status:    Initialized,
		CreatedAt: createdAt,
	}, nil
}

// NewMarket returns an Initialized market order
func NewMarket(symbol string, side Side, quantity decimal.Decimal, createdAt time.Time) (*Order, error) {
	return New(symbol, side, Market, quantity, decimal.Zero, createdAt)
}

// Validate checks the supplied parameters and returns whether they are valid
func (o *Order) Validate() error {
	if o == nil {
		return ErrSubmissionIsNil
	}
	if o.Symbol == "" {
		return fmt.Errorf("%w: %w", ErrValidation, errSymbolEmpty)
	}
	if o.Side != Buy && o.Side != Sell {
		return fmt.Errorf("%w: %w", ErrValidation, errSideInvalid)
	}
	if o.Type != Market && o.Type != Limit && o.Type != Stop {
		return fmt.Errorf("%w: %w", ErrValidation, errTypeInvalid)
	}
	if o.Quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %w", ErrValidation, errAmountInvalid)
	}
	if (o.Type == Limit || o.Type == Stop) && o.Price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: %w", ErrValidation, errPriceMustBeSet)
	}
	return nil
}

// IsActive returns whether the order is still working
func (o *Order) IsActive() bool {
	return o.Status == Submitted || o.Status == PartiallyFilled
}

// String implements the stringer interface
func (s Side) String() string {
	return string(s)
}

// String implements the stringer interface
func (t Type) String() string {
	return string(t)
}

// String implements the stringer interface
func (s Status) String() string {
	return string(s)
}
