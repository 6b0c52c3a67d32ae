package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/marginsim/config"
	"github.com/rustyeddy/marginsim/market"
	"github.com/rustyeddy/marginsim/market/data"
	"github.com/rustyeddy/marginsim/yahoo"
)

// loadGrid fetches history from the configured source and aligns it
// onto the shared date axis.
func loadGrid(ctx context.Context, cfg *config.Config) (market.Grid, error) {
	tickers := make([]market.Ticker, len(cfg.Data.Tickers))
	copy(tickers, cfg.Data.Tickers)

	var (
		prices market.SeriesMap
		divs   market.DividendMap
		err    error
	)
	switch cfg.Data.Source {
	case "csv":
		prices, divs, err = data.LoadHistory(cfg.Data.Dir, tickers)
	default:
		prices, divs, err = yahoo.NewClient("").GetHistory(ctx, tickers, cfg.Data.Range)
	}
	if err != nil {
		return market.Grid{}, fmt.Errorf("load history: %w", err)
	}

	grid := market.Align(prices, divs, tickers)
	if grid.Len() == 0 {
		return market.Grid{}, fmt.Errorf("no common trading days across %v", cfg.Data.Tickers)
	}

	log.Info().
		Int("tickers", len(grid.Tickers)).
		Int("days", grid.Len()).
		Time("start", grid.Dates[0]).
		Time("end", grid.Dates[grid.Len()-1]).
		Msg("aligned history")

	return grid, nil
}
