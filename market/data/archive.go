// Package data reads and writes the on-disk daily-bar archive: one CSV
// file per ticker, optionally xz-compressed. The format is a plain
// date,close,dividend table so files can be inspected and edited by
// hand.
package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/rustyeddy/marginsim/market"
)

const dateLayout = "2006-01-02"

// BarsPath returns the archive file for a ticker inside dir. Ticker
// symbols are uppercased so lookups are case-insensitive.
func BarsPath(dir string, ticker market.Ticker) string {
	return filepath.Join(dir, strings.ToUpper(string(ticker))+".csv")
}

// LoadBars reads one ticker's bars and dividend events from dir. It
// tries <TICKER>.csv first and falls back to <TICKER>.csv.xz.
func LoadBars(dir string, ticker market.Ticker) ([]market.PriceBar, []market.DividendEvent, error) {
	path := BarsPath(dir, ticker)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		path += ".xz"
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open bars for %s: %w", ticker, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, nil, fmt.Errorf("xz reader %s: %w", path, err)
		}
		r = xr
	}

	return readBars(r, path)
}

func readBars(r io.Reader, path string) ([]market.PriceBar, []market.DividendEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // dividend column is optional

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	var bars []market.PriceBar
	var divs []market.DividendEvent
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "date" {
			continue // header
		}
		if len(row) < 2 {
			return nil, nil, fmt.Errorf("%s row %d: want at least date,close", path, i+1)
		}

		date, err := time.ParseInLocation(dateLayout, row[0], time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		close, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s row %d close: %w", path, i+1, err)
		}
		bars = append(bars, market.PriceBar{Date: date, Close: close})

		if len(row) >= 3 && row[2] != "" {
			amount, err := strconv.ParseFloat(row[2], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s row %d dividend: %w", path, i+1, err)
			}
			if amount != 0 {
				divs = append(divs, market.DividendEvent{Date: date, Amount: amount})
			}
		}
	}
	return bars, divs, nil
}

// SaveBars writes one ticker's bars and dividends to dir. A ".xz"
// compress flag produces <TICKER>.csv.xz instead of plain CSV. Writes
// go through a temp file and rename so readers never see a torn file.
func SaveBars(dir string, ticker market.Ticker, bars []market.PriceBar, divs []market.DividendEvent, compress bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := BarsPath(dir, ticker)
	if compress {
		path += ".xz"
	}

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var xw *xz.Writer
	if compress {
		xw, err = xz.NewWriter(f)
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return fmt.Errorf("xz writer %s: %w", path, err)
		}
		w = xw
	}

	writeErr := writeBars(w, bars, divs)
	if xw != nil {
		if err := xw.Close(); err != nil && writeErr == nil {
			writeErr = err
		}
	}
	if err := f.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		_ = os.Remove(tmp)
		return writeErr
	}
	return os.Rename(tmp, path)
}

func writeBars(w io.Writer, bars []market.PriceBar, divs []market.DividendEvent) error {
	byDay := make(map[int64]float64, len(divs))
	for _, d := range divs {
		byDay[market.Day(d.Date).Unix()] += d.Amount
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "close", "dividend"}); err != nil {
		return err
	}
	for _, b := range bars {
		div := ""
		if amount, ok := byDay[market.Day(b.Date).Unix()]; ok && amount != 0 {
			div = strconv.FormatFloat(amount, 'f', -1, 64)
		}
		row := []string{
			b.Date.Format(dateLayout),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			div,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LoadHistory loads every ticker from dir and assembles the maps the
// aligner expects.
func LoadHistory(dir string, tickers []market.Ticker) (market.SeriesMap, market.DividendMap, error) {
	prices := make(market.SeriesMap, len(tickers))
	divs := make(market.DividendMap, len(tickers))

	for _, ticker := range tickers {
		bars, events, err := LoadBars(dir, ticker)
		if err != nil {
			return nil, nil, err
		}
		prices[ticker] = bars
		divs[ticker] = events
	}
	return prices, divs, nil
}
