// Package csv loads bar and tick series from disk for replay. Files carry a
// header row and one record per line, bars as
// time,open,high,low,close,volume and ticks as
// time,bid,ask,bid_size,ask_size, with times in RFC 3339
package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thrasher-corp/backtester/kline"
)

const (
	barFields  = 6
	tickFields = 5
)

// LoadBars reads a bar series from a file and validates its ordering
func LoadBars(path string) ([]kline.Bar, error) {
	records, err := read(path, barFields)
	if err != nil {
		return nil, err
	}
	bars := make([]kline.Bar, 0, len(records))
	for i := range records {
		b, cErr := parseBar(records[i])
		if cErr != nil {
			return nil, fmt.Errorf("%v line %v: %w", path, i+2, cErr)
		}
		bars = append(bars, b)
	}
	if err = kline.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return bars, nil
}

// LoadTicks reads a tick series from a file and validates its ordering
func LoadTicks(path string) ([]kline.Tick, error) {
	records, err := read(path, tickFields)
	if err != nil {
		return nil, err
	}
	ticks := make([]kline.Tick, 0, len(records))
	for i := range records {
		t, cErr := parseTick(records[i])
		if cErr != nil {
			return nil, fmt.Errorf("%v line %v: %w", path, i+2, cErr)
		}
		ticks = append(ticks, t)
	}
	if err = kline.ValidateTicks(ticks); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return ticks, nil
}

func read(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse %v: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}
	// drop the header row
	return records[1:], nil
}

func parseBar(record []string) (kline.Bar, error) {
	t, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return kline.Bar{}, err
	}
	prices := make([]decimal.Decimal, barFields-1)
	for i := 1; i < barFields; i++ {
		prices[i-1], err = decimal.NewFromString(record[i])
		if err != nil {
			return kline.Bar{}, err
		}
	}
	return kline.Bar{
		Time:   t,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: prices[4],
	}, nil
}

func parseTick(record []string) (kline.Tick, error) {
	t, err := time.Parse(time.RFC3339, record[0])
	if err != nil {
		return kline.Tick{}, err
	}
	prices := make([]decimal.Decimal, tickFields-1)
	for i := 1; i < tickFields; i++ {
		prices[i-1], err = decimal.NewFromString(record[i])
		if err != nil {
			return kline.Tick{}, err
		}
	}
	return kline.Tick{
		Time:    t,
		Bid:     prices[0],
		Ask:     prices[1],
		BidSize: prices[2],
		AskSize: prices[3],
	}, nil
}
