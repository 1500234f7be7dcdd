package config

import "errors"

var (
	errStartingCapitalUnset = errors.New("starting capital must be greater than zero")
	errCurrencyUnset        = errors.New("account currency must be set")
	errNegativeRate         = errors.New("rates cannot be negative")
)

// Config holds the tunable settings for a backtest run. Instrument data and
// strategies are supplied programmatically, this covers capital, execution
// frictions and output
type Config struct {
	StartingCapital float64 `json:"starting-capital" mapstructure:"starting-capital"`
	Currency        string  `json:"currency" mapstructure:"currency"`
	// SlippageRate is a fraction of price applied adversely to every fill,
	// zero disables slippage
	SlippageRate float64 `json:"slippage-rate" mapstructure:"slippage-rate"`
	// CommissionRate is a fraction of fill notional charged per fill, zero
	// disables commission
	CommissionRate float64 `json:"commission-rate" mapstructure:"commission-rate"`
	Verbose        bool    `json:"verbose" mapstructure:"verbose"`
}
