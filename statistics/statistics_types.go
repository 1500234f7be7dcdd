package statistics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thrasher-corp/backtester/account"
	"github.com/thrasher-corp/backtester/exchange"
)

var errReceivedNoData = errors.New("received no equity data")

// Statistic holds the summarised results of a completed backtest run
type Statistic struct {
	StartDate       time.Time
	EndDate         time.Time
	StartingCapital account.Money
	FinalEquity     account.Money
	NetReturn       decimal.Decimal
	MaxDrawdown     decimal.Decimal
	TotalOrders     int64
	TotalBuyOrders  int64
	TotalSellOrders int64
	RejectedOrders  int64
	TotalFills      int64
	EquityCurve     []exchange.EquityPoint
	Fills           []exchange.Fill
}
