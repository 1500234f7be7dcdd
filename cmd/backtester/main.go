package main

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/thrasher-corp/backtester/config"
	csvdata "github.com/thrasher-corp/backtester/data/csv"
	"github.com/thrasher-corp/backtester/engine"
	"github.com/thrasher-corp/backtester/instruments"
	"github.com/thrasher-corp/backtester/kline"
	"github.com/thrasher-corp/backtester/strategies"
	"github.com/thrasher-corp/backtester/strategies/buyandhold"
	"github.com/thrasher-corp/backtester/strategies/emacross"
)

func main() {
	app := &cli.App{
		Name:  "backtester",
		Usage: "replay historical market data through a trading strategy",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to a run config file"},
			&cli.StringFlag{Name: "symbol", Value: "USDJPY", Usage: "instrument symbol"},
			&cli.IntFlag{Name: "precision", Value: 3, Usage: "instrument price precision"},
			&cli.StringFlag{Name: "ticksize", Value: "0.001", Usage: "instrument tick size"},
			&cli.StringFlag{Name: "bid-bars", Usage: "path to a bid bar csv file"},
			&cli.StringFlag{Name: "ask-bars", Usage: "path to an ask bar csv file"},
			&cli.StringFlag{Name: "ticks", Usage: "path to a tick csv file"},
			&cli.DurationFlag{Name: "resolution", Value: time.Minute, Usage: "bar resolution"},
			&cli.StringFlag{Name: "strategy", Value: emacross.Name, Usage: "strategy to run"},
			&cli.StringFlag{Name: "size", Value: "100000", Usage: "position size per order"},
			&cli.TimestampFlag{Name: "start", Layout: time.RFC3339, Required: true, Usage: "run start time"},
			&cli.TimestampFlag{Name: "stop", Layout: time.RFC3339, Required: true, Usage: "run stop time"},
			&cli.BoolFlag{Name: "verbose", Usage: "print run results"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.ReadConfigFromFile(path); err != nil {
			return err
		}
	}
	if c.Bool("verbose") {
		cfg.Verbose = true
	}

	tickSize, err := decimal.NewFromString(c.String("ticksize"))
	if err != nil {
		return fmt.Errorf("invalid ticksize: %w", err)
	}
	inst, err := instruments.New(c.String("symbol"), int32(c.Int("precision")), tickSize)
	if err != nil {
		return err
	}
	resolution := kline.Resolution(c.Duration("resolution"))
	settings := &engine.Settings{
		Instruments: []instruments.Instrument{inst},
		TickData:    make(map[string][]kline.Tick),
		BidData:     make(map[string]map[kline.Resolution][]kline.Bar),
		AskData:     make(map[string]map[kline.Resolution][]kline.Bar),
		Config:      cfg,
	}
	if path := c.String("bid-bars"); path != "" {
		bars, lErr := csvdata.LoadBars(path)
		if lErr != nil {
			return lErr
		}
		settings.BidData[inst.Symbol] = map[kline.Resolution][]kline.Bar{resolution: bars}
	}
	if path := c.String("ask-bars"); path != "" {
		bars, lErr := csvdata.LoadBars(path)
		if lErr != nil {
			return lErr
		}
		settings.AskData[inst.Symbol] = map[kline.Resolution][]kline.Bar{resolution: bars}
	}
	if path := c.String("ticks"); path != "" {
		ticks, lErr := csvdata.LoadTicks(path)
		if lErr != nil {
			return lErr
		}
		settings.TickData[inst.Symbol] = ticks
	}

	size, err := decimal.NewFromString(c.String("size"))
	if err != nil {
		return fmt.Errorf("invalid size: %w", err)
	}
	barType := kline.BarType{Symbol: inst.Symbol, Resolution: resolution, Side: kline.Bid}
	var strategy strategies.Handler
	switch c.String("strategy") {
	case emacross.Name:
		strategy = emacross.New(barType, size, 10, 20, 20)
	case buyandhold.Name:
		strategy = buyandhold.New(barType, size)
	default:
		return fmt.Errorf("unknown strategy %v", c.String("strategy"))
	}
	settings.Strategies = []strategies.Handler{strategy}

	bt, err := engine.New(settings)
	if err != nil {
		return err
	}
	if err = bt.Run(*c.Timestamp("start"), *c.Timestamp("stop")); err != nil {
		return err
	}

	results := bt.Results()
	if results != nil && results.Statistics != nil {
		fmt.Printf("final equity: %v over %v events and %v fills\n",
			results.Account.FreeEquity, len(results.Events), len(results.Fills))
	}
	return nil
}
