package order

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Side of an order
type Side string

// Supported sides
const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Type of an order
type Type string

// Supported types
const (
	Market Type = "MARKET"
	Limit  Type = "LIMIT"
	Stop   Type = "STOP"
)

// Status is the lifecycle state of an order. Orders move from Initialized to
// Submitted and terminate in one of the remaining states
type Status string

// Order lifecycle states
const (
	Initialized     Status = "INITIALIZED"
	Submitted       Status = "SUBMITTED"
	PartiallyFilled Status = "PARTIALLY FILLED"
	Filled          Status = "FILLED"
	Cancelled       Status = "CANCELLED"
	Rejected        Status = "REJECTED"
	Expired         Status = "EXPIRED"
)

var (
	// ErrValidation is the umbrella for any order parameter failure. The
	// offending order is recorded as Rejected and no account mutation occurs
	ErrValidation = errors.New("order validation failed")
	// ErrSubmissionIsNil occurs when a nil order is submitted
	ErrSubmissionIsNil = errors.New("order submission is nil")

	errSymbolEmpty    = errors.New("symbol cannot be empty")
	errSideInvalid    = errors.New("side must be BUY or SELL")
	errTypeInvalid    = errors.New("type must be MARKET, LIMIT or STOP")
	errAmountInvalid  = errors.New("quantity must be greater than zero")
	errPriceMustBeSet = errors.New("limit and stop orders require a positive price")
)

// Order is a request to trade an instrument. Created and mutated only by the
// execution client
type Order struct {
	ID        string
	Symbol    string
	Side      Side
	Type      Type
	Quantity  decimal.Decimal
	Price     decimal.Decimal
	Status    Status
	Reason    string
	CreatedAt time.Time
	FilledAt  time.Time
	FillPrice decimal.Decimal
}
