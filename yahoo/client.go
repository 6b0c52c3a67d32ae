// Package yahoo fetches daily close and dividend history from the
// public Yahoo Finance v8 chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rustyeddy/marginsim/market"
)

// DefaultBaseURL is Yahoo's public quote host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client is a Yahoo Finance chart API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client. An empty baseURL selects the public
// Yahoo host; tests point it at a local server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// chartResponse mirrors the subset of the v8 chart payload we consume.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Timestamp []int64 `json:"timestamp"`
	Events    struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// GetDailyBars fetches one ticker's daily closes and dividend events
// for a Yahoo range string such as "1y" or "2y". Days with a null close
// (halts, partial sessions) are skipped.
func (c *Client) GetDailyBars(ctx context.Context, ticker market.Ticker, rng string) ([]market.PriceBar, []market.DividendEvent, error) {
	if ticker == "" {
		return nil, nil, fmt.Errorf("ticker is required")
	}
	if rng == "" {
		rng = "2y"
	}

	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", "1d")
	params.Set("events", "div")

	apiURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(string(ticker)), params.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "marginsim/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, nil, fmt.Errorf("decode response: %w", err)
	}

	if apiResp.Chart.Error != nil {
		return nil, nil, fmt.Errorf("chart error for %s: %s (%s)", ticker, apiResp.Chart.Error.Description, apiResp.Chart.Error.Code)
	}
	if len(apiResp.Chart.Result) == 0 {
		return nil, nil, fmt.Errorf("empty chart result for %s", ticker)
	}

	res := apiResp.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("no quote data for %s", ticker)
	}
	closes := res.Indicators.Quote[0].Close
	if len(closes) != len(res.Timestamp) {
		return nil, nil, fmt.Errorf("mismatched close/timestamp lengths for %s", ticker)
	}

	bars := make([]market.PriceBar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if closes[i] == nil {
			continue
		}
		bars = append(bars, market.PriceBar{
			Date:  market.Day(time.Unix(ts, 0).UTC()),
			Close: *closes[i],
		})
	}

	var divs []market.DividendEvent
	for _, d := range res.Events.Dividends {
		divs = append(divs, market.DividendEvent{
			Date:   market.Day(time.Unix(d.Date, 0).UTC()),
			Amount: d.Amount,
		})
	}

	return bars, divs, nil
}

// GetHistory fetches every ticker and assembles the maps the aligner
// expects. Tickers are fetched sequentially; the endpoint throttles
// aggressive clients.
func (c *Client) GetHistory(ctx context.Context, tickers []market.Ticker, rng string) (market.SeriesMap, market.DividendMap, error) {
	prices := make(market.SeriesMap, len(tickers))
	divs := make(market.DividendMap, len(tickers))

	for _, ticker := range tickers {
		bars, events, err := c.GetDailyBars(ctx, ticker, rng)
		if err != nil {
			return nil, nil, fmt.Errorf("fetch %s: %w", ticker, err)
		}
		prices[ticker] = bars
		divs[ticker] = events
	}

	return prices, divs, nil
}
