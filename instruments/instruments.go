// Package instruments defines the tradeable instruments a backtest run is
// configured with. Instruments are immutable after creation
package instruments

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	errSymbolEmpty      = errors.New("instrument symbol cannot be empty")
	errInvalidPrecision = errors.New("price precision cannot be negative")
	errInvalidTickSize  = errors.New("tick size must be positive")
)

// Instrument describes a single tradeable instrument
type Instrument struct {
	Symbol         string
	PricePrecision int32
	TickSize       decimal.Decimal
}

// New validates and returns an Instrument
func New(symbol string, pricePrecision int32, tickSize decimal.Decimal) (Instrument, error) {
	if symbol == "" {
		return Instrument{}, errSymbolEmpty
	}
	if pricePrecision < 0 {
		return Instrument{}, errInvalidPrecision
	}
	if tickSize.LessThanOrEqual(decimal.Zero) {
		return Instrument{}, errInvalidTickSize
	}
	return Instrument{
		Symbol:         symbol,
		PricePrecision: pricePrecision,
		TickSize:       tickSize,
	}, nil
}

// RoundPrice rounds a raw price to the instrument's price precision
func (i *Instrument) RoundPrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(i.PricePrecision)
}
