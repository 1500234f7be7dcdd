package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrasher-corp/backtester/order"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	c := Default()
	require.NoError(t, c.Validate())

	capital, err := c.Capital()
	require.NoError(t, err)
	assert.Equal(t, "USD", capital.Currency)
	assert.True(t, capital.Amount.Equal(decimal.NewFromInt(1000000)))
}

func TestValidate(t *testing.T) {
	t.Parallel()
	c := Default()
	c.StartingCapital = 0
	assert.ErrorIs(t, c.Validate(), errStartingCapitalUnset)

	c = Default()
	c.Currency = ""
	assert.ErrorIs(t, c.Validate(), errCurrencyUnset)

	c = Default()
	c.SlippageRate = -0.01
	assert.ErrorIs(t, c.Validate(), errNegativeRate)

	c = Default()
	c.CommissionRate = -0.01
	assert.ErrorIs(t, c.Validate(), errNegativeRate)
}

func TestReadConfigFromFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	contents := []byte(`{
	"starting-capital": 250000,
	"currency": "JPY",
	"slippage-rate": 0.0001,
	"commission-rate": 0.0002,
	"verbose": true
}`)
	require.NoError(t, os.WriteFile(path, contents, 0o644))

	c, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 250000.0, c.StartingCapital)
	assert.Equal(t, "JPY", c.Currency)
	assert.Equal(t, 0.0001, c.SlippageRate)
	assert.Equal(t, 0.0002, c.CommissionRate)
	assert.True(t, c.Verbose)

	_, err = ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadConfigFromFileInvalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"starting-capital": -5}`), 0o644))
	_, err := ReadConfigFromFile(path)
	assert.ErrorIs(t, err, errStartingCapitalUnset)
}

func TestSlippageFn(t *testing.T) {
	t.Parallel()
	c := Default()
	assert.Nil(t, c.SlippageFn())

	c.SlippageRate = 0.001
	fn := c.SlippageFn()
	require.NotNil(t, fn)
	price := decimal.NewFromInt(100)
	assert.True(t, fn(order.Buy, price).Equal(decimal.NewFromFloat(100.1)))
	assert.True(t, fn(order.Sell, price).Equal(decimal.NewFromFloat(99.9)))
}

func TestCommissionFn(t *testing.T) {
	t.Parallel()
	c := Default()
	assert.Nil(t, c.CommissionFn())

	c.CommissionRate = 0.0005
	fn := c.CommissionFn()
	require.NotNil(t, fn)
	got := fn(decimal.NewFromInt(100), decimal.NewFromInt(10))
	assert.True(t, got.Equal(decimal.NewFromFloat(0.5)))
}

func TestLogger(t *testing.T) {
	t.Parallel()
	c := Default()
	require.NotNil(t, c.Logger())
	c.Verbose = true
	require.NotNil(t, c.Logger())
}
