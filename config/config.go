// Package config loads and validates backtest run settings
package config

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/thrasher-corp/backtester/account"
	"github.com/thrasher-corp/backtester/exchange"
	"github.com/thrasher-corp/backtester/order"
)

// Default returns a config with a million units of USD, no execution
// frictions and quiet output
func Default() *Config {
	return &Config{
		StartingCapital: 1000000,
		Currency:        "USD",
	}
}

// ReadConfigFromFile resolves and validates a config file. JSON, YAML and
// TOML are accepted
func ReadConfigFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("could not read config %v: %w", path, err)
	}
	c := Default()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("could not parse config %v: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks all config settings
func (c *Config) Validate() error {
	if c.StartingCapital <= 0 {
		return errStartingCapitalUnset
	}
	if c.Currency == "" {
		return errCurrencyUnset
	}
	if c.SlippageRate < 0 || c.CommissionRate < 0 {
		return errNegativeRate
	}
	return nil
}

// Capital returns the starting capital as money
func (c *Config) Capital() (account.Money, error) {
	return account.NewMoney(decimal.NewFromFloat(c.StartingCapital), c.Currency)
}

// SlippageFn builds the fill price adjustment from the configured rate, nil
// when slippage is disabled
func (c *Config) SlippageFn() exchange.SlippageFn {
	if c.SlippageRate == 0 {
		return nil
	}
	rate := decimal.NewFromFloat(c.SlippageRate)
	return func(side order.Side, price decimal.Decimal) decimal.Decimal {
		adjustment := price.Mul(rate)
		if side == order.Buy {
			return price.Add(adjustment)
		}
		return price.Sub(adjustment)
	}
}

// CommissionFn builds the per fill commission from the configured rate, nil
// when commission is disabled
func (c *Config) CommissionFn() exchange.CommissionFn {
	if c.CommissionRate == 0 {
		return nil
	}
	rate := decimal.NewFromFloat(c.CommissionRate)
	return func(price, quantity decimal.Decimal) decimal.Decimal {
		return price.Mul(quantity).Mul(rate)
	}
}

// Logger returns a console logger when verbose output is enabled, otherwise a
// no-op logger. Logging never influences run determinism
func (c *Config) Logger() *zap.SugaredLogger {
	if !c.Verbose {
		return zap.NewNop().Sugar()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}
