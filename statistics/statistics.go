// Package statistics summarises a completed backtest run
package statistics

import (
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/thrasher-corp/backtester/account"
	"github.com/thrasher-corp/backtester/exchange"
	"github.com/thrasher-corp/backtester/order"
)

// Calculate derives run statistics from the execution record
func Calculate(start, end time.Time, startingCapital account.Money, orders []*order.Order, fills []exchange.Fill, equity []exchange.EquityPoint) (*Statistic, error) {
	if len(equity) == 0 {
		return nil, errReceivedNoData
	}
	s := &Statistic{
		StartDate:       start,
		EndDate:         end,
		StartingCapital: startingCapital,
		FinalEquity:     equity[len(equity)-1].FreeEquity,
		EquityCurve:     equity,
		Fills:           fills,
		TotalFills:      int64(len(fills)),
	}
	for i := range orders {
		s.TotalOrders++
		switch {
		case orders[i].Status == order.Rejected:
			s.RejectedOrders++
		case orders[i].Side == order.Buy:
			s.TotalBuyOrders++
		case orders[i].Side == order.Sell:
			s.TotalSellOrders++
		}
	}
	if startingCapital.Amount.GreaterThan(decimal.Zero) {
		s.NetReturn = s.FinalEquity.Amount.Sub(startingCapital.Amount).
			Div(startingCapital.Amount).
			Mul(decimal.NewFromInt(100))
	}
	s.MaxDrawdown = maxDrawdown(equity)
	return s, nil
}

// maxDrawdown returns the largest peak to trough equity decline as a
// percentage of the peak
func maxDrawdown(equity []exchange.EquityPoint) decimal.Decimal {
	peak := equity[0].FreeEquity.Amount
	worst := decimal.Zero
	for i := range equity {
		v := equity[i].FreeEquity.Amount
		if v.GreaterThan(peak) {
			peak = v
			continue
		}
		if peak.IsZero() {
			continue
		}
		dd := peak.Sub(v).Div(peak).Mul(decimal.NewFromInt(100))
		if dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst
}

// PrintResults reports the run summary through the supplied logger
func (s *Statistic) PrintResults(log *zap.SugaredLogger) {
	log.Infof("------------------Backtest Results---------------------------")
	log.Infof("Start date: %v", s.StartDate)
	log.Infof("End date: %v", s.EndDate)
	log.Infof("Starting capital: %v", s.StartingCapital)
	log.Infof("Final equity: %v", s.FinalEquity)
	log.Infof("Net return: %v%%", s.NetReturn.StringFixed(4))
	log.Infof("Max drawdown: %v%%", s.MaxDrawdown.StringFixed(4))
	log.Infof("Total orders: %v", s.TotalOrders)
	log.Infof("Total buy orders: %v", s.TotalBuyOrders)
	log.Infof("Total sell orders: %v", s.TotalSellOrders)
	log.Infof("Rejected orders: %v", s.RejectedOrders)
	log.Infof("Total fills: %v", s.TotalFills)
}
